package properties

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/eci-arep/secureweb/cmd/cli/config"
	"github.com/eci-arep/secureweb/cmd/cli/output"
	"github.com/eci-arep/secureweb/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Properties
// ==========================
func InitProperties(rootCmd *cobra.Command) {

	propertiesCmd := &cobra.Command{
		Use:   "properties",
		Short: "Manage properties",
	}

	propertiesCmd.AddCommand(
		listPropertiesCmd(),
		getPropertyCmd(),
		createPropertyCmd(),
		updatePropertyCmd(),
		deletePropertyCmd(),
	)

	rootCmd.AddCommand(propertiesCmd)
}

// ==========================
// LIST
// ==========================
func listPropertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := doRequest("GET", "/properties", nil)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var props []models.Property
			if err := json.NewDecoder(resp.Body).Decode(&props); err != nil {
				fmt.Println("failed to decode response:", err)
				return
			}

			rows := make([][]interface{}, 0, len(props))
			for _, p := range props {
				rows = append(rows, []interface{}{p.ID, p.Address, p.Price, p.Size, p.Description})
			}
			output.RenderTable([]string{"ID", "Address", "Price", "Size", "Description"}, rows)
		},
	}
}

// ==========================
// GET
// ==========================
func getPropertyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Get a property by id",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := doRequest("GET", "/properties/"+args[0], nil)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp.Body)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createPropertyCmd() *cobra.Command {

	var address string
	var price float64
	var size float64
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create property",
		Run: func(cmd *cobra.Command, args []string) {

			payload := map[string]interface{}{
				"address":     address,
				"price":       price,
				"size":        size,
				"description": description,
			}

			body, _ := json.Marshal(payload)

			resp, err := doRequest("POST", "/properties", bytes.NewBuffer(body))
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp.Body)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "property address")
	cmd.Flags().Float64Var(&price, "price", 0, "property price")
	cmd.Flags().Float64Var(&size, "size", 0, "property size")
	cmd.Flags().StringVar(&description, "description", "", "property description")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updatePropertyCmd() *cobra.Command {

	var address string
	var price float64
	var size float64
	var description string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update property",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			if _, err := strconv.Atoi(args[0]); err != nil {
				fmt.Println("id must be numeric")
				return
			}

			payload := map[string]interface{}{
				"address":     address,
				"price":       price,
				"size":        size,
				"description": description,
			}

			body, _ := json.Marshal(payload)

			resp, err := doRequest("PUT", "/properties/"+args[0], bytes.NewBuffer(body))
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				fmt.Println("Failed to update property:", string(b))
				return
			}

			printJSON(resp.Body)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "property address")
	cmd.Flags().Float64Var(&price, "price", 0, "property price")
	cmd.Flags().Float64Var(&size, "size", 0, "property size")
	cmd.Flags().StringVar(&description, "description", "", "property description")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deletePropertyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete property",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := doRequest("DELETE", "/properties/"+args[0], nil)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				fmt.Println("Property deleted")
			} else {
				fmt.Println("Failed to delete property")
			}
		},
	}
}

// doRequest sends a request to the API, attaching the stored bearer token when
// one exists so the server can attribute the action.
func doRequest(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := config.LoadToken(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

func printJSON(r io.Reader) {
	var out any
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		fmt.Println("failed to decode response:", err)
		return
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
