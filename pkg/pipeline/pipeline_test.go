package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/budgetflow/budgetflow/pkg/errors"
	"github.com/budgetflow/budgetflow/pkg/sankey"
	"github.com/budgetflow/budgetflow/pkg/spending"
	"github.com/budgetflow/budgetflow/pkg/usaspending"
)

// fakeAPI serves a tiny spending-explorer dataset: one object class, one
// budget function, two agencies.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req usaspending.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		switch req.Type {
		case "object_class":
			fmt.Fprint(w, `{"results":[{"id":"1","type":"object_class","name":"Personnel","amount":80}]}`)
		case "budget_function":
			fmt.Fprint(w, `{"results":[{"id":"10","type":"budget_function","name":"Defense","amount":80}]}`)
		case "agency":
			fmt.Fprint(w, `{"results":[
				{"id":"900","type":"agency","name":"DoD","amount":50},
				{"id":"901","type":"agency","name":"VA","amount":30}
			]}`)
		default:
			t.Errorf("unexpected query type %q", req.Type)
		}
	}))
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{FiscalYear: "2024"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("canvas = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.AgencyCutoff != DefaultAgencyCutoff {
		t.Errorf("AgencyCutoff = %d, want %d", opts.AgencyCutoff, DefaultAgencyCutoff)
	}
	if opts.VizType != VizTypeSankey {
		t.Errorf("VizType = %q, want %q", opts.VizType, VizTypeSankey)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"BadFiscalYear", Options{FiscalYear: "24"}, errors.ErrCodeInvalidFiscalYear},
		{"PreDataFiscalYear", Options{FiscalYear: "2005"}, errors.ErrCodeInvalidFiscalYear},
		{"BadFormat", Options{FiscalYear: "2024", Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"BadVizType", Options{FiscalYear: "2024", VizType: "tower"}, errors.ErrCodeInvalidVizType},
		{"NegativeCutoff", Options{FiscalYear: "2024", AgencyCutoff: -1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if errors.GetCode(err) != tt.code {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCurrentFiscalYear(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{"MidYear", "2026-06-15", "2026"},
		{"SeptemberStaysPut", "2026-09-30", "2026"},
		{"OctoberRollsOver", "2026-10-01", "2027"},
		{"December", "2026-12-31", "2027"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := CurrentFiscalYear(d); got != tt.want {
				t.Errorf("CurrentFiscalYear(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}

func TestRunnerFetch(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	runner := NewRunner(usaspending.NewClient(srv.URL, nil), testLogger())
	dataset, err := runner.Fetch(context.Background(), Options{FiscalYear: "2024", AgencyCutoff: 1})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	agencies := dataset.Categories[spending.KindAgency]
	if len(agencies) != 2 || agencies[0] != "DoD" || agencies[1] != spending.OtherAgency {
		t.Errorf("agencies = %v, want [DoD Other]", agencies)
	}
	for _, rec := range dataset.Records {
		if rec.Agency == "VA" {
			t.Errorf("record agency VA survived consolidation with cutoff 1")
		}
	}
}

func TestRunnerExecute(t *testing.T) {
	srv := fakeAPI(t)
	defer srv.Close()

	runner := NewRunner(usaspending.NewClient(srv.URL, nil), testLogger())
	result, err := runner.Execute(context.Background(), Options{
		FiscalYear: "2024",
		Formats:    []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.RecordCount != 2 {
		t.Errorf("RecordCount = %d, want 2", result.Stats.RecordCount)
	}
	// Root + 1 object class + 1 budget function + 2 agencies + Other.
	if result.Stats.NodeCount != 6 {
		t.Errorf("NodeCount = %d, want 6", result.Stats.NodeCount)
	}

	svg := string(result.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "DoD") {
		t.Errorf("svg artifact missing or incomplete: %.80q", svg)
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact missing")
	}

	g, err := sankey.UnmarshalGraph(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact does not round-trip: %v", err)
	}
	if len(g.Nodes) != result.Stats.NodeCount {
		t.Errorf("json artifact has %d nodes, want %d", len(g.Nodes), result.Stats.NodeCount)
	}
}

func TestRunnerExecutePropagatesFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	runner := NewRunner(usaspending.NewClient(srv.URL, nil), testLogger())
	_, err := runner.Execute(context.Background(), Options{FiscalYear: "2024"})
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}
