package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-telco/telebill/internal/controller"
	"github.com/open-telco/telebill/internal/models"
)

// friendlyError maps the domain error taxonomy to user-facing messages.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, models.ErrCustomerNotFound):
		return "customer not found"
	case errors.Is(err, models.ErrInvalidInput):
		return fmt.Sprintf("invalid input: %v", err)
	case errors.Is(err, models.ErrStorageFailure):
		return fmt.Sprintf("database error: %v", err)
	default:
		return err.Error()
	}
}

func parseCustomerID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: customer id must be a positive number", models.ErrInvalidInput)
	}
	return uint(id), nil
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, _ := cmd.Flags().GetString("phone")
		name, _ := cmd.Flags().GetString("name")
		address, _ := cmd.Flags().GetString("address")
		plan, _ := cmd.Flags().GetString("plan")

		customer, err := customerPanel.Submit(controller.CustomerForm{
			PhoneNumber: phone,
			Name:        name,
			Address:     address,
			RatePlan:    plan,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Customer added successfully (id %d)\n", customer.ID)
		return nil
	},
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		customers, err := models.ListCustomers(db)
		if err != nil {
			return err
		}
		if len(customers) == 0 {
			fmt.Println("No customers registered.")
			return nil
		}
		fmt.Printf("%-5s %-14s %-24s %-10s %s\n", "ID", "PHONE", "NAME", "PLAN", "ADDRESS")
		for _, customer := range customers {
			fmt.Printf("%-5d %-14s %-24s %-10s %s\n",
				customer.ID, customer.PhoneNumber, customer.Name, customer.RatePlan, customer.Address)
		}
		return nil
	},
}

var customerUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a customer (the phone number cannot be changed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCustomerID(args[0])
		if err != nil {
			return err
		}

		// Route through the panel like a double click would, so the form
		// starts from the stored record with the phone number locked.
		customerPanel.RowActivated(id)
		if customerPanel.Mode() != controller.ModeUpdate {
			return models.ErrCustomerNotFound
		}
		form := customerPanel.Form()
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			form.Name = name
		}
		if address, _ := cmd.Flags().GetString("address"); cmd.Flags().Changed("address") {
			form.Address = address
		}
		if plan, _ := cmd.Flags().GetString("plan"); plan != "" {
			form.RatePlan = plan
		}

		customer, err := customerPanel.Submit(form)
		if err != nil {
			return err
		}
		fmt.Printf("Customer %d updated successfully\n", customer.ID)
		return nil
	},
}

var customerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a customer and all associated calls and bills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCustomerID(args[0])
		if err != nil {
			return err
		}
		if _, err := models.GetCustomer(db, id); err != nil {
			return err
		}

		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			fmt.Printf("Delete customer %d and all associated call logs and bills? [y/N]: ", id)
			var answer string
			fmt.Scanln(&answer)
			confirmed = strings.EqualFold(strings.TrimSpace(answer), "y")
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}

		// Drive the same selection path the list UI uses: a single click
		// arms the delete once the debounce window closes.
		customerPanel.RowSelected(id)
		deadline := time.Now().Add(debounce() + time.Second)
		for customerPanel.Mode() != controller.ModeDelete {
			if time.Now().After(deadline) {
				return fmt.Errorf("%w: selection did not resolve", models.ErrStorageFailure)
			}
			time.Sleep(10 * time.Millisecond)
		}
		if err := customerPanel.ConfirmDelete(true); err != nil {
			return err
		}
		fmt.Printf("Customer %d deleted\n", id)
		return nil
	},
}

func init() {
	customerAddCmd.Flags().String("phone", "", "phone number (unique)")
	customerAddCmd.Flags().String("name", "", "customer name")
	customerAddCmd.Flags().String("address", "", "postal address")
	customerAddCmd.Flags().String("plan", "Standard", "rate plan name")
	_ = customerAddCmd.MarkFlagRequired("phone")
	_ = customerAddCmd.MarkFlagRequired("name")

	customerUpdateCmd.Flags().String("name", "", "customer name")
	customerUpdateCmd.Flags().String("address", "", "postal address")
	customerUpdateCmd.Flags().String("plan", "", "rate plan name")

	customerDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	customerCmd.AddCommand(customerAddCmd, customerListCmd, customerUpdateCmd, customerDeleteCmd)
}
