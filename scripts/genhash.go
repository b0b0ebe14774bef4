// One-off: go run scripts/genhash.go [-user name] [-cost n] password
// Prints a bcrypt hash, or with -user a seed INSERT for the users table.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	user := flag.String("user", "", "emit an INSERT for this username")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	password := "admin"
	if flag.NArg() > 0 {
		password = flag.Arg(0)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *user == "" {
		fmt.Print(string(h))
		return
	}
	fmt.Printf("INSERT INTO users (id, username, password_hash) VALUES ('%s', '%s', '%s');\n",
		uuid.NewString(), strings.ReplaceAll(*user, "'", "''"), h)
}
