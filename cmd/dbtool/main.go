// Command dbtool manages the backoffice Postgres schema from the
// command line. "migrate" creates or updates the schema in place;
// "smoke" verifies connectivity and that every table the server
// expects is present.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

func main() {
	if len(os.Args) < 2 {
		fatalf("usage: dbtool <migrate|smoke> [args]")
	}

	switch os.Args[1] {
	case "migrate":
		migrate(os.Args[2:])
	case "smoke":
		smoke(os.Args[2:])
	default:
		fatalf("unknown subcommand: %s", os.Args[1])
	}
}

func connectURL(fs *flag.FlagSet, args []string) string {
	var url string
	fs.StringVar(&url, "url", os.Getenv("DATABASE_URL"), "postgres connection string")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if url == "" {
		fatalf("missing --url (or DATABASE_URL)")
	}
	return url
}

func migrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	url := connectURL(fs, args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		fatal(err)
	}
	defer conn.Close(context.Background())

	for _, stmt := range schemaDDL {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := conn.Exec(ctx, stmt); err != nil {
			fatalf("migrate: %v\nstatement:\n%s", err, stmt)
		}
	}

	fmt.Println("[migrate] OK")
}

var expectedTables = []string{
	"educations",
	"education_curriculum",
	"education_attendees",
	"education_comments",
	"sec_educations",
	"sec_education_attendees",
	"sec_education_comments",
	"regulations",
	"regulation_comments",
	"sw_assets",
	"sw_asset_purchases",
	"sw_asset_comments",
	"code_sequences",
	"session_kv",
}

func smoke(args []string) {
	fs := flag.NewFlagSet("smoke", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	url := connectURL(fs, args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		fatal(err)
	}
	defer conn.Close(context.Background())

	var one int
	if err := conn.QueryRow(ctx, `SELECT 1;`).Scan(&one); err != nil {
		fatal(err)
	}

	var missing []string
	for _, table := range expectedTables {
		var exists bool
		err := conn.QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM information_schema.tables
  WHERE table_schema = 'backoffice' AND table_name = $1
);`, table).Scan(&exists)
		if err != nil {
			fatal(err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		fatalf("missing tables in schema backoffice: %s (run dbtool migrate)", strings.Join(missing, ", "))
	}

	fmt.Println("[smoke] OK")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "dbtool:", err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "dbtool: "+format+"\n", args...)
	os.Exit(1)
}
