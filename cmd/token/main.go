// Command token mints a bearer token for local development. It signs with
// the server's secret (-s, JWT_SECRET or the JSON config) so the token is
// accepted the same way one from the identity provider would be.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/learnfeed/internal/flagx"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/dmitrijs2005/learnfeed/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	var p auth.Principal
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	fs.StringVar(&p.UserID, "user", "", "user id (required)")
	fs.StringVar(&p.FirstName, "first", "", "first name")
	fs.StringVar(&p.LastName, "last", "", "last name")
	fs.StringVar(&p.Username, "username", "", "username")
	fs.StringVar(&p.Email, "email", "", "email")

	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-user", "-first", "-last", "-username", "-email"}))

	if p.UserID == "" {
		log.Fatal("-user is required")
	}

	token, err := auth.GenerateToken(p, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(token)
}
