package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"

	"github.com/nulzo/app-config-api/internal/cli"
)

const appPort = 8081

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 500, "Requests per second")
	flag.Parse()

	if err := run(*duration, *rate); err != nil {
		fmt.Println(cli.CrossMark(), err)
		os.Exit(1)
	}
}

// run owns the child server; every return path goes through its deferred kill.
func run(duration time.Duration, rate int) error {
	fmt.Println(cli.Arrow(), "Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		return fmt.Errorf("build app: %w", err)
	}

	configFile := "bench_config.yaml"
	if err := os.WriteFile(configFile, []byte(benchConfig), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(configFile)

	logFile, err := os.Create("bench_server.log")
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()

	fmt.Println(cli.Arrow(), "Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("CONFIG_FILE=%s", configFile),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	baseURL := fmt.Sprintf("http://localhost:%d", appPort)
	if err := waitForApp(baseURL + "/health"); err != nil {
		return err
	}

	expected, err := fetch(baseURL + "/")
	if err != nil {
		return err
	}
	fmt.Println(cli.CheckMark(), "Served settings:")
	cli.PrettyPrint(expected)

	fmt.Printf("Running benchmark: %s duration, %d req/s\n", duration, rate)

	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: http.MethodGet,
		URL:    baseURL + "/",
	})

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	mismatched := 0
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: rate, Per: time.Second}, duration, "Benchmark") {
		if res.Code == http.StatusOK && string(res.Body) != string(expected) {
			mismatched++
		}
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("Status codes:    ", formatCodes(metrics.StatusCodes))
	fmt.Println("--------------------------------------------------")

	if mismatched > 0 {
		fmt.Println(cli.CrossMark(), mismatched, "responses differed from the first body")
	} else {
		fmt.Println(cli.CheckMark(), "All bodies identical")
	}

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		for i, msg := range metrics.Errors {
			if i == 5 {
				break
			}
			fmt.Println(msg)
		}
	}

	return nil
}

func fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	return body, nil
}

func formatCodes(codes map[string]int) string {
	parts := make([]string, 0, len(codes))
	for code, n := range codes {
		parts = append(parts, code+"="+strconv.Itoa(n))
	}
	return strings.Join(parts, " ")
}

func waitForApp(url string) error {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("app at %s timed out", url)
}

const benchConfig = `
version: "0.1.0"
server:
  env: production
log:
  level: error
  format: json
rate_limit:
  enabled: false
app:
  name: bench
  env: production
  port: 8080
  features:
    signup: true
    regions: ["eu", "us", "apac"]
`
