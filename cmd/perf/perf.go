package perf

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/gcmap/cmd/util"
	"github.com/ValentinKolb/gcmap/lib/collector"
	"github.com/ValentinKolb/gcmap/lib/gcmap"
	"github.com/ValentinKolb/gcmap/lib/store/hstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for gcmap",
		Long:    `Runs parallel benchmarks of put, get, contains and remove on hash and sorted maps. Sorted maps are accessed under their lock. The configuration can be set via command line flags or environment variables (GCMAP_<FLAG>, e.g. GCMAP_THREADS=4)`,
		RunE:    run,
		PreRunE: processConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfKeySpread  = 1000
	perfSkip       = make([]string, 0)
)

// benchmark is a single test against a freshly created map
type benchmark struct {
	name string
	run  func(b *testing.B, m mapOps, getKey func(int) string)
}

// mapOps is the subset of map operations the benchmarks exercise
type mapOps interface {
	Put(key string, value []byte)
	Get(key string) []byte
	Contains(key string) bool
	Remove(key string) bool
}

// lockedMap holds the lock of m around every operation
type lockedMap struct {
	m gcmap.Map[string, []byte]
}

func (l lockedMap) Put(key string, value []byte) {
	l.m.Sync().Lock()
	defer l.m.Sync().Unlock()
	l.m.Put(key, value)
}

func (l lockedMap) Get(key string) []byte {
	l.m.Sync().Lock()
	defer l.m.Sync().Unlock()
	return l.m.Get(key)
}

func (l lockedMap) Contains(key string) bool {
	l.m.Sync().Lock()
	defer l.m.Sync().Unlock()
	return l.m.Contains(key)
}

func (l lockedMap) Remove(key string) bool {
	l.m.Sync().Lock()
	defer l.m.Sync().Unlock()
	return l.m.Remove(key)
}

// flavor creates the map a benchmark runs against
type flavor struct {
	name   string
	locked bool // sorted maps are not safe for concurrent use
	create func(c collector.ICollector) (gcmap.Map[string, []byte], error)
}

func init() {
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,sorted/get)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of threads per CPU to use for the benchmark"))
	key = "keys"
	PerfCmd.Flags().Int(key, 1000, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))

	util.SetupCollectorFlags(PerfCmd)
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfKeySpread < 1 {
		return fmt.Errorf("invalid key count %d (must be at least 1)", perfKeySpread)
	}
	if perfNumThreads < 1 {
		return fmt.Errorf("invalid thread count %d (must be at least 1)", perfNumThreads)
	}
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for gcmap")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	c := collector.NewCollector(util.GetCollectorOptions("perf"))
	defer func() { _ = c.Shutdown() }()

	fmt.Println("starting tests...")

	results := make(map[string]testing.BenchmarkResult)
	for _, f := range flavors() {
		for _, bm := range benchmarks() {
			name := f.name + "/" + bm.name
			result := testing.Benchmark(func(b *testing.B) {
				if shouldSkip(bm.name) || shouldSkip(name) {
					return
				}

				m, err := f.create(c)
				if err != nil {
					b.Fatalf("failed to create %s map: %v", f.name, err)
				}
				var target mapOps = m
				if f.locked {
					target = lockedMap{m}
				}

				getKey := getKeys(bm.name)

				b.SetParallelism(perfNumThreads)
				b.ResetTimer()
				bm.run(b, target, getKey)
			})
			results[name] = result
			printResult(name, result)
		}
	}

	c.Collect()
	stats := c.Stats()
	fmt.Printf("\ncollector: %d registered, %d reclaimed, %d live\n", stats.Registered, stats.Reclaimed, stats.Scoped+stats.Permanent)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

func flavors() []flavor {
	return []flavor{
		{
			name: "hash",
			create: func(c collector.ICollector) (gcmap.Map[string, []byte], error) {
				m, err := gcmap.NewHashMap[string, []byte](c, hstore.WithHasher(hstore.StringHasher()), hstore.WithPresize[string](perfKeySpread))
				return m.Map, err
			},
		},
		{
			name:   "sorted",
			locked: true,
			create: func(c collector.ICollector) (gcmap.Map[string, []byte], error) {
				m, err := gcmap.NewSortedMap[string, []byte](c, cmp.Compare[string])
				return m.Map, err
			},
		},
	}
}

func benchmarks() []benchmark {
	value := []byte("test")

	return []benchmark{
		{name: "put", run: func(b *testing.B, m mapOps, getKey func(int) string) {
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					m.Put(getKey(counter), value)
					counter++
				}
			})
		}},
		{name: "get", run: func(b *testing.B, m mapOps, getKey func(int) string) {
			fill(m, getKey, value)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					_ = m.Get(getKey(counter))
					counter++
				}
			})
		}},
		{name: "contains", run: func(b *testing.B, m mapOps, getKey func(int) string) {
			fill(m, getKey, value)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					_ = m.Contains(getKey(counter))
					counter++
				}
			})
		}},
		{name: "remove", run: func(b *testing.B, m mapOps, getKey func(int) string) {
			fill(m, getKey, value)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					_ = m.Remove(getKey(counter))
					counter++
				}
			})
		}},
		{name: "mixed", run: func(b *testing.B, m mapOps, getKey func(int) string) {
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					key := getKey(counter)
					switch counter % 4 {
					case 0:
						m.Put(key, value)
					case 1:
						_ = m.Get(key)
					case 2:
						_ = m.Contains(key)
					case 3:
						_ = m.Remove(key)
					}
					counter++
				}
			})
		}},
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// creates an array of test keys and a function to get a key by index (with wraparound)
func getKeys(prefix string) func(int) string {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	return func(i int) string {
		return keys[i%perfKeySpread]
	}
}

// fill puts every test key into m
func fill(m mapOps, getKey func(int) string, value []byte) {
	for i := 0; i < perfKeySpread; i++ {
		m.Put(getKey(i), value)
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Threads", "Keys Count", "SweepInterval",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	tests := make([]string, 0, len(results))
	for test := range results {
		tests = append(tests, test)
	}
	slices.Sort(tests)

	for _, test := range tests {
		result := results[test]
		var nsPerOp float64
		var opsPerSec float64
		skipped := "true"

		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
			viper.GetDuration("sweep-interval").String(),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
