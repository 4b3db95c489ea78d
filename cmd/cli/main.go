package main

import (
	"fmt"
	"os"

	"github.com/eci-arep/secureweb/cmd/cli/auth"
	"github.com/eci-arep/secureweb/cmd/cli/properties"
	"github.com/eci-arep/secureweb/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	properties.InitProperties(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
