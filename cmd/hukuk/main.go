/*
main.go - Application entry point

PURPOSE:
  The hukuk command runs the calculator API server and offers the two
  calculators plus a few admin helpers on the command line.

COMMANDS:
  serve          Start the HTTP API (see serve.go)
  compensation   Calculate severance, notice, overtime and vacation pay
  sentence       Calculate a sentence execution breakdown
  presets        List jurisdiction presets
  hash-password  Produce a bcrypt hash for auth.admin_password_hash

GLOBAL FLAGS:
  --config  Path to a TOML config file (default: ./hukuk.toml)
            A missing file means built-in defaults.

ENVIRONMENT:
  HUKUK_JWT_SECRET, HUKUK_DB_PATH, HUKUK_PORT override the config file.

EXAMPLES:
  # Run the server with a file database
  hukuk serve --config ./hukuk.toml

  # One-off calculation with the 2024 figures
  hukuk compensation --wage 15000 --years 3 --overtime 100 --preset tr-2024-h2

SEE ALSO:
  - config/config.go: Configuration
  - api/server.go: Router configuration
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
