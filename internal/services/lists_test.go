package services_test

import (
	"fmt"
	"testing"

	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/google/uuid"
)

func TestCreateUserListLimit(t *testing.T) {
	db := setupTestDB(t)
	userID := uuid.New().String()

	for i := 0; i < validation.MaxListsPerUser; i++ {
		if _, err := services.CreateUserList(db, userID, fmt.Sprintf("List %d", i)); err != nil {
			t.Fatalf("CreateUserList %d failed: %v", i, err)
		}
	}

	_, err := services.CreateUserList(db, userID, "One Too Many")
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeListLimitReached {
		t.Errorf("Expected LIST_LIMIT_REACHED, got %v", err)
	}

	// Another user's count is independent
	if _, err := services.CreateUserList(db, uuid.New().String(), "First"); err != nil {
		t.Errorf("Expected a fresh user to create a list, got %v", err)
	}
}

func TestCreateUserListDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	userID := uuid.New().String()

	if _, err := services.CreateUserList(db, userID, "Binder"); err != nil {
		t.Fatalf("CreateUserList failed: %v", err)
	}

	_, err := services.CreateUserList(db, userID, "Binder")
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeValidation {
		t.Errorf("Expected validation error for duplicate name, got %v", err)
	}

	// Same name under a different user is allowed
	if _, err := services.CreateUserList(db, uuid.New().String(), "Binder"); err != nil {
		t.Errorf("Expected duplicate name across users to pass, got %v", err)
	}
}

func TestRenameUserList(t *testing.T) {
	db := setupTestDB(t)
	userID := uuid.New().String()

	list, err := services.CreateUserList(db, userID, "Old Name")
	if err != nil {
		t.Fatalf("CreateUserList failed: %v", err)
	}

	renamed, err := services.RenameUserList(db, userID, list.ListID, "New Name")
	if err != nil {
		t.Fatalf("RenameUserList failed: %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("Expected renamed list, got %q", renamed.Name)
	}

	_, err = services.RenameUserList(db, uuid.New().String(), list.ListID, "Stolen")
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeListNotFound {
		t.Errorf("Expected LIST_NOT_FOUND for a foreign user, got %v", err)
	}
}

func TestAddListEntriesOwnership(t *testing.T) {
	db := setupTestDB(t)
	card := seedCard(t, db)
	owner := uuid.New().String()
	stranger := uuid.New().String()

	ownEntry, err := services.CreateCollectionEntry(db, owner, &validation.EntryCreate{CardID: card.CardID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateCollectionEntry failed: %v", err)
	}
	foreignEntry, err := services.CreateCollectionEntry(db, stranger, &validation.EntryCreate{CardID: card.CardID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateCollectionEntry failed: %v", err)
	}

	list, err := services.CreateUserList(db, owner, "Binder")
	if err != nil {
		t.Fatalf("CreateUserList failed: %v", err)
	}

	// A batch containing any foreign entry fails whole
	_, err = services.AddListEntries(db, owner, list.ListID, []string{ownEntry.EntryID, foreignEntry.EntryID})
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeEntryNotFound {
		t.Errorf("Expected ENTRY_NOT_FOUND for a foreign entry, got %v", err)
	}

	after, err := services.GetUserList(db, owner, list.ListID)
	if err != nil {
		t.Fatalf("GetUserList failed: %v", err)
	}
	if len(after.Entries) != 0 {
		t.Errorf("Expected no partial membership after failed batch, got %d", len(after.Entries))
	}
}

func TestRemoveListEntry(t *testing.T) {
	db := setupTestDB(t)
	card := seedCard(t, db)
	userID := uuid.New().String()

	entry, err := services.CreateCollectionEntry(db, userID, &validation.EntryCreate{CardID: card.CardID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateCollectionEntry failed: %v", err)
	}
	list, err := services.CreateUserList(db, userID, "Binder")
	if err != nil {
		t.Fatalf("CreateUserList failed: %v", err)
	}
	if _, err := services.AddListEntries(db, userID, list.ListID, []string{entry.EntryID}); err != nil {
		t.Fatalf("AddListEntries failed: %v", err)
	}

	if err := services.RemoveListEntry(db, userID, list.ListID, entry.EntryID); err != nil {
		t.Fatalf("RemoveListEntry failed: %v", err)
	}

	// Removing a non-member entry is a 404
	err = services.RemoveListEntry(db, userID, list.ListID, entry.EntryID)
	appErr, ok := err.(*types.AppError)
	if !ok || appErr.Code != types.CodeEntryNotFound {
		t.Errorf("Expected ENTRY_NOT_FOUND on repeat removal, got %v", err)
	}

	// The collection entry itself survives list removal
	if _, _, totals, err := services.ListCollection(db, userID, &validation.PageRequest{Page: 1, PageSize: 20}); err != nil || totals.EntryCount != 1 {
		t.Errorf("Expected entry to survive list removal, got totals %+v, err %v", totals, err)
	}
}

func TestGetUserListsSummaries(t *testing.T) {
	db := setupTestDB(t)
	card := seedCard(t, db)
	userID := uuid.New().String()

	entry, err := services.CreateCollectionEntry(db, userID, &validation.EntryCreate{CardID: card.CardID, Quantity: 1})
	if err != nil {
		t.Fatalf("CreateCollectionEntry failed: %v", err)
	}
	full, err := services.CreateUserList(db, userID, "Full")
	if err != nil {
		t.Fatalf("CreateUserList failed: %v", err)
	}
	if _, err := services.CreateUserList(db, userID, "Empty"); err != nil {
		t.Fatalf("CreateUserList failed: %v", err)
	}
	if _, err := services.AddListEntries(db, userID, full.ListID, []string{entry.EntryID}); err != nil {
		t.Fatalf("AddListEntries failed: %v", err)
	}

	summaries, err := services.GetUserLists(db, userID)
	if err != nil {
		t.Fatalf("GetUserLists failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 lists, got %d", len(summaries))
	}

	counts := map[string]int64{}
	for _, s := range summaries {
		counts[s.Name] = s.EntryCount
	}
	if counts["Full"] != 1 || counts["Empty"] != 0 {
		t.Errorf("Expected entry counts 1/0, got %v", counts)
	}
}
