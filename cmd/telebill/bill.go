package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-telco/telebill/internal/models"
	"github.com/open-telco/telebill/internal/task"
)

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Generate and inspect bills",
}

var billGenerateCmd = &cobra.Command{
	Use:   "generate <customer-id>",
	Short: "Generate or regenerate a customer's bill for a period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCustomerID(args[0])
		if err != nil {
			return err
		}
		period, _ := cmd.Flags().GetString("period")

		result, err := billingPanel.Generate(id, period)
		if err != nil {
			return err
		}
		if result.NoActivity {
			fmt.Printf("No call activity for customer %d in %s; no bill generated.\n", id, period)
			return nil
		}
		verb := "updated"
		if result.Created {
			verb = "generated"
		}
		fmt.Printf("Bill %s for %s: %d calls, total %s\n",
			verb, result.Bill.BillingPeriod, result.Bill.TotalCalls,
			result.Bill.TotalCharge.StringFixed(2))
		return nil
	},
}

var billListCmd = &cobra.Command{
	Use:   "list <customer-id>",
	Short: "Show a customer's billing history, newest period first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCustomerID(args[0])
		if err != nil {
			return err
		}

		bills, err := billingPanel.History(id)
		if err != nil {
			return err
		}
		if len(bills) == 0 {
			fmt.Println("No bills found.")
			return nil
		}
		fmt.Printf("%-9s %8s %12s  %s\n", "PERIOD", "CALLS", "TOTAL", "GENERATED")
		for _, bill := range bills {
			fmt.Printf("%-9s %8d %12s  %s\n",
				bill.BillingPeriod, bill.TotalCalls,
				bill.TotalCharge.StringFixed(2),
				bill.GeneratedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var billCycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run the billing cycle for every customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, _ := cmd.Flags().GetString("period")
		if period == "" {
			period = models.PreviousPeriod(time.Now())
		}

		summary, err := task.RunBillingCycle(db, period)
		if err != nil {
			return err
		}
		fmt.Printf("Billing cycle %s: %d billed, %d with no activity, %d failed\n",
			summary.Period, summary.Billed, summary.NoActivity, summary.Failed)
		return nil
	},
}

func init() {
	billGenerateCmd.Flags().String("period", models.PeriodOf(time.Now()), "billing period (YYYY-MM)")
	billCycleCmd.Flags().String("period", "", "billing period (YYYY-MM), defaults to last month")

	billCmd.AddCommand(billGenerateCmd, billListCmd, billCycleCmd)
}
