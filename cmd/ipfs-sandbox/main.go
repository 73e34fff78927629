// Command ipfs-sandbox serves the fake daemon over HTTP for local
// development. It speaks the same API surface the client library
// targets, so applications can run against it without a real node.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kubonet/ipfs_sdk_go/pkg/ipfs/ipfstest"
)

type sandboxConfig struct {
	Addr    string        `yaml:"addr"`
	Latency time.Duration `yaml:"latency"`
	Fail    string        `yaml:"fail"`
	Seed    []seedFile    `yaml:"seed"`
}

type seedFile struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type failConfig struct {
	rate float64
	code int
}

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	addr := flag.String("addr", ":5001", "listen address")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	cfg := sandboxConfig{Addr: *addr, Latency: *latency, Fail: *fail}
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = mergeFlags(loaded, cfg)
	}

	failCfg, err := parseFailConfig(cfg.Fail)
	if err != nil {
		log.Fatalf("parse fail setting: %v", err)
	}

	daemon := ipfstest.New()
	daemon.SetLatency(cfg.Latency)
	if failCfg.rate > 0 {
		daemon.SetFailure(failCfg.rate, failCfg.code)
	}

	for _, seed := range cfg.Seed {
		data, err := os.ReadFile(seed.Path)
		if err != nil {
			log.Fatalf("read seed %s: %v", seed.Path, err)
		}
		cid := daemon.SeedBlock(data)
		fmt.Printf("seeded %s as %s\n", seed.Name, cid)
	}

	fmt.Printf("sandbox daemon listening on %s (peer %s)\n", cfg.Addr, daemon.PeerID())
	if err := http.ListenAndServe(cfg.Addr, daemon.Handler()); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func loadConfig(path string) (sandboxConfig, error) {
	var cfg sandboxConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// mergeFlags lets command-line flags override file values when set to
// something other than their defaults.
func mergeFlags(file, flags sandboxConfig) sandboxConfig {
	if flags.Addr != ":5001" {
		file.Addr = flags.Addr
	}
	if flags.Latency != 0 {
		file.Latency = flags.Latency
	}
	if flags.Fail != "" {
		file.Fail = flags.Fail
	}
	if file.Addr == "" {
		file.Addr = ":5001"
	}
	return file
}

func parseFailConfig(raw string) (failConfig, error) {
	if raw == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	for _, part := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return failConfig{}, fmt.Errorf("malformed fail setting %q", part)
		}
		switch key {
		case "rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil || rate < 0 || rate > 1 {
				return failConfig{}, fmt.Errorf("invalid fail rate %q", value)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(value)
			if err != nil || code < 400 || code > 599 {
				return failConfig{}, fmt.Errorf("invalid fail code %q", value)
			}
			cfg.code = code
		default:
			return failConfig{}, fmt.Errorf("unknown fail setting %q", key)
		}
	}
	return cfg, nil
}
