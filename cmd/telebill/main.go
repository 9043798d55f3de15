package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/open-telco/telebill/cmd/bootstrap"
	"github.com/open-telco/telebill/internal/controller"
	"github.com/open-telco/telebill/internal/directory"
	"github.com/open-telco/telebill/internal/listeners"
	"github.com/open-telco/telebill/internal/task"
	"github.com/open-telco/telebill/pkg/config"
	"github.com/open-telco/telebill/pkg/events"
	"github.com/open-telco/telebill/pkg/logger"
)

var (
	db            *gorm.DB
	bus           *events.EventBus
	phoneBook     *directory.CustomerDirectory
	customerPanel *controller.CustomerPanel
	billingPanel  *controller.BillingPanel
)

// debounce returns the configured selection debounce window.
func debounce() time.Duration {
	return time.Duration(config.GlobalConfig.SelectionDelayMS) * time.Millisecond
}

var rootCmd = &cobra.Command{
	Use:           "telebill",
	Short:         "Telephone billing system",
	Long:          "Manage customers, log calls and generate monthly bills.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := logger.Init(&config.GlobalConfig.Log, config.GlobalConfig.Mode); err != nil {
			return err
		}

		var err error
		db, err = bootstrap.SetupDatabase(os.Stdout, &bootstrap.Options{
			AutoMigrate: true,
			SeedNonProd: false,
		})
		if err != nil {
			return err
		}

		bus = events.GetEventBus()
		listeners.InitBillingListener(bus)
		listeners.InitCustomerListener(bus)
		phoneBook = directory.New(db, bus)
		customerPanel = controller.NewCustomerPanel(db, bus, debounce())
		billingPanel = controller.NewBillingPanel(db, bus)

		if config.GlobalConfig.BillingAutoRun {
			if _, err := task.StartBillingRunner(db, config.GlobalConfig.BillingSchedule); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func main() {
	rootCmd.AddCommand(customerCmd, callCmd, billCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", friendlyError(err))
		os.Exit(1)
	}
}
