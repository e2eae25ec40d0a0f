package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/iwvelando/deal-forecast/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "test", "test_config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(conf.Deals) != 3 {
		t.Fatalf("expected 3 deals, got %d", len(conf.Deals))
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" || conf.Output.Mode != "annual" {
		t.Errorf("unexpected output config %+v", conf.Output)
	}

	first := conf.Deals[0]
	if first.Name != "scenario a" || !first.Active {
		t.Errorf("unexpected first deal %+v", first)
	}
	expected := projection.DefaultDealParams()
	expected.ArtistName = "Test Artist"
	if first.Params != expected {
		t.Errorf("first deal params = %+v, expected %+v", first.Params, expected)
	}

	if conf.Deals[2].Active {
		t.Error("expected third deal to be inactive")
	}
	if conf.Deals[2].Params.Advance != -5 {
		t.Errorf("third deal advance = %v, expected -5", conf.Deals[2].Params.Advance)
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if len(conf.ActiveDeals()) != 2 {
		t.Errorf("expected 2 active deals in example, got %d", len(conf.ActiveDeals()))
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected example config to validate cleanly, got %v", warnings)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	data := `deals:
  - name: reader
    active: true
    params:
      advance: 1000
      growthRate: -12.5
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if len(conf.Deals) != 1 {
		t.Fatalf("expected 1 deal, got %d", len(conf.Deals))
	}
	if conf.Deals[0].Params.Advance != 1000 || conf.Deals[0].Params.GrowthRate != -12.5 {
		t.Errorf("unexpected params %+v", conf.Deals[0].Params)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("deals: [unclosed")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidateConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`deals:
  - name: shaky
    active: true
    params:
      advance: -100
      streamingProfitSplit: 140
      growthRate: -300
  - name: shaky
    active: false
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	warnings := conf.ValidateConfiguration()
	joined := strings.Join(warnings, "\n")
	for _, want := range []string{"advance", "streamingProfitSplit", "growth rate", "more than once"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected a warning mentioning %q, got %v", want, warnings)
		}
	}
	if len(warnings) != 4 {
		t.Errorf("expected 4 warnings, got %d: %v", len(warnings), warnings)
	}
}

func TestActiveDeals(t *testing.T) {
	conf := Configuration{
		Deals: []Deal{
			{Name: "a", Active: true},
			{Name: "b"},
			{Name: "c", Active: true},
		},
	}
	active := conf.ActiveDeals()
	if len(active) != 2 || active[0].Name != "a" || active[1].Name != "c" {
		t.Errorf("ActiveDeals() = %+v", active)
	}
}
