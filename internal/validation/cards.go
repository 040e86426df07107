package validation

import (
	"strconv"
	"strings"

	"github.com/cardbinder/cardbinder/internal/types"
)

const (
	DefaultCardPageSize = 24
	DefaultSetPageSize  = 20
	MaxPageSize         = 100
	MinQueryLength      = 2
)

// Sort orders accepted by the catalog search. The service maps these to
// concrete column expressions; nothing caller-provided reaches the SQL.
const (
	SortSet    = "set"
	SortName   = "name"
	SortNumber = "number"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// CardSearch is the validated command for GET /cards. Absent optional
// filters are zero-valued and omitted from the query entirely.
type CardSearch struct {
	Query         string
	SetID         uint64
	SetExternalID string
	CardNumber    string
	RarityID      uint64
	Type          string
	Page          int
	PageSize      int
	Sort          string
	Order         string
}

// PageRequest is the validated pagination command for plain listings.
type PageRequest struct {
	Page     int
	PageSize int
}

// queryGetter abstracts fiber's c.Query so validation stays testable without
// an HTTP context.
type queryGetter interface {
	Query(key string, defaultValue ...string) string
}

// ParseCardSearch validates and normalizes the /cards query string.
func ParseCardSearch(c queryGetter) (*CardSearch, *types.AppError) {
	fields := map[string]string{}

	cmd := &CardSearch{
		Page:     1,
		PageSize: DefaultCardPageSize,
		Sort:     SortName,
		Order:    OrderAsc,
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		if len([]rune(q)) < MinQueryLength {
			fields["q"] = "must be at least 2 characters"
		} else {
			cmd.Query = q
		}
	}

	setID := strings.TrimSpace(c.Query("setId"))
	setExternalID := strings.TrimSpace(c.Query("setExternalId"))
	if setID != "" && setExternalID != "" {
		fields["setId"] = "mutually exclusive with setExternalId"
		fields["setExternalId"] = "mutually exclusive with setId"
	} else if setID != "" {
		id, err := strconv.ParseUint(setID, 10, 64)
		if err != nil || id == 0 {
			fields["setId"] = "must be a positive integer"
		} else {
			cmd.SetID = id
		}
	} else if setExternalID != "" {
		cmd.SetExternalID = setExternalID
	}

	if num := strings.TrimSpace(c.Query("cardNumber")); num != "" {
		cmd.CardNumber = NormalizeCardNumber(num)
	}

	if rarity := strings.TrimSpace(c.Query("rarityId")); rarity != "" {
		id, err := strconv.ParseUint(rarity, 10, 64)
		if err != nil || id == 0 {
			fields["rarityId"] = "must be a positive integer"
		} else {
			cmd.RarityID = id
		}
	}

	if typ := strings.TrimSpace(c.Query("type")); typ != "" {
		cmd.Type = typ
	}

	page, pageSize := parsePagination(c, DefaultCardPageSize, fields)
	cmd.Page = page
	cmd.PageSize = pageSize

	if sort := strings.ToLower(strings.TrimSpace(c.Query("sort"))); sort != "" {
		switch sort {
		case SortSet, SortName, SortNumber:
			cmd.Sort = sort
		default:
			fields["sort"] = "must be one of: set, name, number"
		}
	}

	if order := strings.ToLower(strings.TrimSpace(c.Query("order"))); order != "" {
		switch order {
		case OrderAsc, OrderDesc:
			cmd.Order = order
		default:
			fields["order"] = "must be asc or desc"
		}
	}

	if len(fields) > 0 {
		return nil, types.FilterError("Invalid card search filters", fields)
	}

	return cmd, nil
}

// ParsePageRequest validates page/pageSize for plain listings.
func ParsePageRequest(c queryGetter, defaultPageSize int) (*PageRequest, *types.AppError) {
	fields := map[string]string{}
	page, pageSize := parsePagination(c, defaultPageSize, fields)
	if len(fields) > 0 {
		return nil, types.FilterError("Invalid pagination", fields)
	}
	return &PageRequest{Page: page, PageSize: pageSize}, nil
}

// parsePagination applies the shared page/pageSize rules: page >= 1,
// pageSize 1..100, clamped server-side rather than rejected when too large.
func parsePagination(c queryGetter, defaultPageSize int, fields map[string]string) (int, int) {
	page := 1
	pageSize := defaultPageSize

	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			fields["page"] = "must be an integer >= 1"
		} else {
			page = v
		}
	}

	if raw := strings.TrimSpace(c.Query("pageSize")); raw != "" {
		v, err := strconv.Atoi(raw)
		switch {
		case err != nil || v < 1:
			fields["pageSize"] = "must be an integer >= 1"
		case v > MaxPageSize:
			pageSize = MaxPageSize
		default:
			pageSize = v
		}
	}

	return page, pageSize
}

// NormalizeCardNumber uppercases and strips whitespace so "sv1 023" and
// "SV1-023" compare equal to the imported form.
func NormalizeCardNumber(num string) string {
	num = strings.ToUpper(strings.TrimSpace(num))
	num = strings.ReplaceAll(num, " ", "")
	return num
}
