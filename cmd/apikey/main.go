// Stores or removes the Google Routes credential in the OS keychain,
// so the engine never needs the key in a file or its environment.
package main

import (
	"fmt"
	"log"
	"os"

	"roomhunt-engine/internal/secrets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "set":
		if len(os.Args) != 3 {
			usage()
		}
		if err := secrets.SetRoutesAPIKey(os.Args[2]); err != nil {
			log.Fatal(err)
		}
		fmt.Println("routes api key stored")
	case "delete":
		if err := secrets.DeleteRoutesAPIKey(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("routes api key deleted")
	case "status":
		if secrets.RoutesAPIKey() == "" {
			fmt.Println("no routes api key configured")
		} else {
			fmt.Println("routes api key configured")
		}
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: apikey set <key> | apikey delete | apikey status")
	os.Exit(2)
}
