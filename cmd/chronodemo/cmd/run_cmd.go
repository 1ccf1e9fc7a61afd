package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tempolab/chrono/anim"
	"github.com/tempolab/chrono/clock"
	"github.com/tempolab/chrono/exprs"
	"github.com/tempolab/chrono/monitoring"
	"github.com/tempolab/chrono/properties"
	"github.com/tempolab/chrono/recording"
)

var (
	monitorFlag bool
	portFlag    int
	recordFlag  string
	speedFlag   float64
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Play a scenario and print the sampled property values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		scenario, err := LoadScenario(args[0])
		if err != nil {
			return err
		}

		return runScenario(cmd, scenario)
	},
}

func init() {
	runCmd.Flags().BoolVar(&monitorFlag, "monitor", false,
		"serve the monitoring API while the scenario runs")
	runCmd.Flags().IntVar(&portFlag, "port", 0,
		"monitoring port (defaults to CHRONO_MONITOR_PORT)")
	runCmd.Flags().StringVar(&recordFlag, "record", "",
		"record an event trace and samples to the given SQLite database")
	runCmd.Flags().Float64Var(&speedFlag, "speed", 1,
		"speed factor of the scenario clock")

	rootCmd.AddCommand(runCmd)
}

// scene is the single owner all scenario properties are bound to.
type scene struct {
	name string
}

func runScenario(cmd *cobra.Command, scenario *Scenario) error {
	c := clock.NewClock()
	c.SetSpeed(speedFlag)

	owner := &scene{name: scenario.Name}
	slots := make(map[string]*properties.Slot)
	order := make([]string, 0, len(scenario.Properties))
	for _, p := range scenario.Properties {
		slots[p.Name] = properties.NewSlot(p.Name, p.Default...)
		order = append(order, p.Name)
	}
	defer func() {
		for _, slot := range slots {
			slot.Release(owner)
		}
	}()

	if err := applySteps(c, scenario, slots, owner); err != nil {
		return err
	}

	monitor := setupMonitor(c, slots, owner, order)
	recorder := setupRecording(c, scenario, slots, owner, order)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 2, ' ', 0)
	fmt.Fprintln(w, "time\t"+strings.Join(order, "\t"))
	printRow(w, c, slots, owner, order)

	for i := 0; i < scenario.Ticks; i++ {
		if monitor != nil {
			monitor.Gate()
		}

		if err := c.Advance(clock.VTime(scenario.Tick)); err != nil {
			return err
		}

		printRow(w, c, slots, owner, order)
	}

	if recorder != nil {
		recorder.Flush()
	}

	return w.Flush()
}

func applySteps(
	c *clock.Clock,
	scenario *Scenario,
	slots map[string]*properties.Slot,
	owner *scene,
) error {
	for _, step := range scenario.Steps {
		slot := slots[step.Property]

		var start any = slot.Get(owner)
		if len(step.Start) > 0 {
			start = step.Start
		}

		builder := anim.New(c, start, step.End, step.Duration).
			WithDelay(step.Delay).
			WithEasing(easings[step.Easing])
		if step.Clamp != nil {
			builder.WithClamp(*step.Clamp)
		}

		a, err := builder.Build()
		if err != nil {
			return fmt.Errorf("animating %s: %w", step.Property, err)
		}

		if err := slot.Set(owner, a.Expression); err != nil {
			return fmt.Errorf("animating %s: %w", step.Property, err)
		}
	}

	return nil
}

func setupMonitor(
	c *clock.Clock,
	slots map[string]*properties.Slot,
	owner *scene,
	order []string,
) *monitoring.Monitor {
	if !monitorFlag {
		return nil
	}

	port := portFlag
	if port == 0 {
		port, _ = strconv.Atoi(os.Getenv("CHRONO_MONITOR_PORT"))
	}

	monitor := monitoring.NewMonitor().WithPortNumber(port)
	monitor.RegisterClock("main", c)
	for _, name := range order {
		monitor.RegisterExpression(name, slots[name].Link(owner))
	}
	monitor.StartServer()

	return monitor
}

func setupRecording(
	c *clock.Clock,
	scenario *Scenario,
	slots map[string]*properties.Slot,
	owner *scene,
	order []string,
) recording.DataRecorder {
	if recordFlag == "" {
		return nil
	}

	recorder := recording.New(recordFlag)
	c.AcceptHook(recording.NewEventTraceHook(recorder, "events"))

	for _, name := range order {
		sampler := recording.NewSampler(
			recorder, c, name+"_samples", slots[name].Link(owner))

		err := sampler.Start(clock.VTime(scenario.Tick), scenario.Ticks+1)
		if err != nil {
			log.Printf("cannot sample %s: %v", name, err)
		}
	}

	return recorder
}

func printRow(
	w *tabwriter.Writer,
	c *clock.Clock,
	slots map[string]*properties.Slot,
	owner *scene,
	order []string,
) {
	cells := make([]string, 0, len(order)+1)
	cells = append(cells, formatFloat(float64(c.CurrentTime())))

	for _, name := range order {
		values, err := exprs.Eval(slots[name].Link(owner))
		if err != nil {
			cells = append(cells, err.Error())
			continue
		}

		strs := make([]string, len(values))
		for i, v := range values {
			strs[i] = formatFloat(v)
		}
		cells = append(cells, strings.Join(strs, ","))
	}

	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
