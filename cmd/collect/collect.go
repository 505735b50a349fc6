package collect

import (
	"cmp"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/ValentinKolb/gcmap/cmd/util"
	"github.com/ValentinKolb/gcmap/lib/collector"
	"github.com/ValentinKolb/gcmap/lib/common"
	"github.com/ValentinKolb/gcmap/lib/gcmap"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	CollectCmd = &cobra.Command{
		Use:     "collect",
		Short:   "Demonstrate scoped and permanent reclamation",
		Long:    `Allocates scoped and permanent maps, drops every reference to them and forces collections until all scoped maps are reclaimed. Prints the collector statistics before and after the shutdown. The configuration can be set via command line flags or environment variables (GCMAP_<FLAG>, e.g. GCMAP_SCOPED=1000)`,
		PreRunE: processConfig,
		RunE:    run,
	}
	collectConfig = struct {
		scoped    int
		permanent int
		entries   int
		timeout   time.Duration
		metrics   bool
	}{}

	plog = logger.GetLogger(common.LoggerCLI)
)

func init() {
	key := "scoped"
	CollectCmd.Flags().Int(key, 100, util.WrapString("Number of scoped maps to allocate and drop"))
	key = "permanent"
	CollectCmd.Flags().Int(key, 10, util.WrapString("Number of permanent maps to allocate and drop"))
	key = "entries"
	CollectCmd.Flags().Int(key, 100, util.WrapString("Number of entries per map"))
	key = "timeout"
	CollectCmd.Flags().Duration(key, 10*time.Second, util.WrapString("How long to wait for the scoped maps to be reclaimed"))
	key = "metrics"
	CollectCmd.Flags().Bool(key, false, util.WrapString("Print the collector metrics in Prometheus text format"))

	util.SetupCollectorFlags(CollectCmd)
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	collectConfig.scoped = viper.GetInt("scoped")
	collectConfig.permanent = viper.GetInt("permanent")
	collectConfig.entries = viper.GetInt("entries")
	collectConfig.timeout = viper.GetDuration("timeout")
	collectConfig.metrics = viper.GetBool("metrics")

	if collectConfig.scoped < 0 || collectConfig.permanent < 0 || collectConfig.entries < 0 {
		return fmt.Errorf("map and entry counts must not be negative")
	}
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	c := collector.NewCollector(util.GetCollectorOptions("collect"))

	start := time.Now()
	if err := allocate(c, collectConfig.scoped, false); err != nil {
		return err
	}
	if err := allocate(c, collectConfig.permanent, true); err != nil {
		return err
	}
	plog.Infof("allocated %d scoped and %d permanent maps in %s", collectConfig.scoped, collectConfig.permanent, time.Since(start))

	// every reference is dropped, collect until the scoped registry is empty
	deadline := time.Now().Add(collectConfig.timeout)
	for c.Stats().Scoped > 0 && time.Now().Before(deadline) {
		c.Collect()
		time.Sleep(10 * time.Millisecond)
	}
	if left := c.Stats().Scoped; left > 0 {
		plog.Warningf("%d scoped maps were not reclaimed within %s", left, collectConfig.timeout)
	}

	fmt.Println("Before shutdown:")
	if err := printStats(c.Stats()); err != nil {
		return err
	}
	if collectConfig.metrics {
		fmt.Println()
		c.WritePrometheus(os.Stdout)
	}

	if err := c.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down collector: %v", err)
	}

	fmt.Println()
	fmt.Println("After shutdown:")
	return printStats(c.Stats())
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// allocate creates n maps (alternating hash and sorted) without keeping a reference to them
func allocate(c collector.ICollector, n int, static bool) error {
	for i := 0; i < n; i++ {
		var (
			m   gcmap.Map[int, int]
			err error
		)
		switch {
		case i%2 == 0 && static:
			var hm gcmap.HashMap[int, int]
			hm, err = gcmap.NewStaticHashMapFrom(c, sequence(collectConfig.entries))
			m = hm.Map
		case i%2 == 0:
			var hm gcmap.HashMap[int, int]
			hm, err = gcmap.NewHashMapFrom(c, sequence(collectConfig.entries))
			m = hm.Map
		case static:
			var sm gcmap.SortedMap[int, int]
			sm, err = gcmap.NewStaticSortedMapFrom(c, cmp.Compare[int], sequence(collectConfig.entries))
			m = sm.Map
		default:
			var sm gcmap.SortedMap[int, int]
			sm, err = gcmap.NewSortedMapFrom(c, cmp.Compare[int], sequence(collectConfig.entries))
			m = sm.Map
		}
		if err != nil {
			return fmt.Errorf("failed to allocate map %d: %v", i, err)
		}
		plog.Debugf("allocated map %d (hash code %d, %d entries)", m.RegistrationID(), m.HashCode(), m.Size())
	}
	return nil
}

// sequence yields the pairs (i, i*i) for 0 <= i < n
func sequence(n int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i < n; i++ {
			if !yield(i, i*i) {
				return
			}
		}
	}
}

func printStats(stats collector.Stats) error {
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
