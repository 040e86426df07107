package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardbinder/cardbinder/tests/helpers"
	"github.com/joho/godotenv"
)

// Stands up the full container stack (database, authorizer, app image) for
// manual poking, then holds it until interrupted. The same environment
// variables drive it as the integration and e2e suites.
func main() {
	envFile := flag.String("f", "", "path to an .env file to load first")
	flag.Usage = func() {
		log.Println("usage: testcontainers [-f ENV_FILE]")
		log.Println("Starts the cardbinder test container stack; Ctrl-C tears it down.")
	}
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Failed to load %s: %v", *envFile, err)
		}
		log.Printf("Loaded environment from %s", *envFile)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var stack *helpers.TestContainers
	go func() {
		var err error
		stack, err = helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v", err)
		}
		log.Println("Container stack is up; send SIGINT to tear it down")
	}()

	sig := <-sigs
	log.Printf("Received %v, terminating test containers", sig)
	if stack != nil {
		stack.Terminate(nil)
	}
}
