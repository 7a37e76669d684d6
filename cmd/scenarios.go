package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pulsecore/config"
	"github.com/kilianp07/pulsecore/core/energy"
	"github.com/kilianp07/pulsecore/core/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Print the daily energy comparison for all operating scenarios",
	RunE:  runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if _, err := os.Stat(cfgPath); err == nil {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSPIN (MIN)\tSPINS/DAY\tDAILY (GWH)\tNET (GWH)\tEFFICIENCY")
	for _, sc := range scenario.All() {
		e := energy.ScenarioEnergy(sc, cfg.Simulation.PeakPowerGW, cfg.Simulation.StartupEnergyGJ)
		fmt.Fprintf(w, "%s\t%.0f\t%.2f\t%.1f\t%.1f\t%.3f\n",
			sc.Name, sc.SpinMinutes, sc.SpinsPerDay, e.DailyEnergyGWh, e.NetEnergyGWh, e.EfficiencyRatio)
	}
	return w.Flush()
}
