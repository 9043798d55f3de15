package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-telco/telebill/internal/models"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Log and inspect calls",
}

var callLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a completed call, priced at the caller's current plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		duration, _ := cmd.Flags().GetInt64("duration")

		// The directory resolves the caller through the cache before the
		// call is priced and stored.
		caller, err := phoneBook.Lookup(from)
		if err != nil {
			return fmt.Errorf("caller %s: %w", from, err)
		}

		call, err := models.LogCall(db, caller.PhoneNumber, to, duration)
		if err != nil {
			return err
		}
		fmt.Printf("Call logged: %s -> %s, %ds, cost %s (%s plan)\n",
			caller.PhoneNumber, to, call.DurationSec,
			call.Cost.StringFixed(2), caller.RatePlan)
		return nil
	},
}

var callListCmd = &cobra.Command{
	Use:   "list <customer-id>",
	Short: "List a customer's calls, optionally filtered by period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCustomerID(args[0])
		if err != nil {
			return err
		}
		period, _ := cmd.Flags().GetString("period")

		calls, err := models.ListCalls(db, id, period)
		if err != nil {
			return err
		}
		if len(calls) == 0 {
			fmt.Println("No calls found.")
			return nil
		}
		fmt.Printf("%-20s %-14s %8s %10s  %s\n", "STARTED", "CALLEE", "SECONDS", "COST", "PERIOD")
		for _, call := range calls {
			fmt.Printf("%-20s %-14s %8d %10s  %s\n",
				call.StartedAt.Format("2006-01-02 15:04:05"),
				call.CalleeNumber, call.DurationSec,
				call.Cost.StringFixed(2), call.Period)
		}
		return nil
	},
}

func init() {
	callLogCmd.Flags().String("from", "", "caller phone number")
	callLogCmd.Flags().String("to", "", "callee phone number")
	callLogCmd.Flags().Int64("duration", 0, "call duration in seconds")
	_ = callLogCmd.MarkFlagRequired("from")
	_ = callLogCmd.MarkFlagRequired("to")
	_ = callLogCmd.MarkFlagRequired("duration")

	callListCmd.Flags().String("period", "", "billing period filter (YYYY-MM)")

	callCmd.AddCommand(callLogCmd, callListCmd)
}
