package solsniffer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testAddr = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"

const nestedPayload = `{
	"data": {
		"tokenMetadata": {"address": "` + testAddr + `", "name": "Bonk", "symbol": "BONK"},
		"tokenInfo": {"price": 0.0000214, "mktCap": 1530000000.25, "supplyAmount": 88000000000000},
		"securityInfo": {
			"auditRisk": {"mintDisabled": true, "freezeDisabled": true, "lpBurned": true, "top10Holders": false}
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, time.Second)
}

func TestClient_TokenReport(t *testing.T) {
	var gotPath, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-KEY")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(nestedPayload))
	})

	report, err := c.TokenReport(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("TokenReport() error: %v", err)
	}

	if want := "/api/v2/token/" + testAddr; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}
	if gotKey != "test-key" {
		t.Errorf("X-API-KEY = %q, want %q", gotKey, "test-key")
	}
	if report.Name != "Bonk" || report.Symbol != "BONK" {
		t.Errorf("token = %s (%s), want Bonk (BONK)", report.Name, report.Symbol)
	}
	if got := report.Price.String(); got != "0.0000214" {
		t.Errorf("Price = %s, want 0.0000214", got)
	}
	if got := report.MarketCap.String(); got != "1530000000.25" {
		t.Errorf("MarketCap = %s, want 1530000000.25", got)
	}
	if !report.MintDisabled || !report.FreezeDisabled || !report.LPBurned || report.Top10Holders {
		t.Errorf("audit flags = %+v, want all clean", report)
	}
	if len(report.Raw) == 0 {
		t.Error("Raw upstream JSON not retained")
	}
}

func TestClient_TokenReport_FlatShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"address": "` + testAddr + `", "name": "Samo", "symbol": "SAMO"}`))
	})

	report, err := c.TokenReport(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("TokenReport() error: %v", err)
	}
	if report.Name != "Samo" {
		t.Errorf("Name = %q, want Samo", report.Name)
	}
	// Audit flags default pessimistic when absent.
	if report.MintDisabled || report.LPBurned {
		t.Error("absent audit flags should read as risky")
	}
}

func TestClient_TokenReport_UnknownFieldsDefault(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {}}`))
	})

	report, err := c.TokenReport(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("TokenReport() error: %v", err)
	}
	if report.Address != testAddr {
		t.Errorf("Address = %q, want requested address", report.Address)
	}
	if report.Name != "Unknown Token" || report.Symbol != "???" {
		t.Errorf("defaults = %s (%s), want Unknown Token (???)", report.Name, report.Symbol)
	}
	if !report.Price.IsZero() {
		t.Errorf("Price = %s, want 0", report.Price)
	}
}

func TestClient_TokenReport_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})

	_, err := c.TokenReport(context.Background(), testAddr)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("TokenReport() error = %v, want ErrTokenNotFound", err)
	}
}

func TestClient_TokenReport_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := c.TokenReport(context.Background(), testAddr)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("TokenReport() error = %v, want ErrRateLimited", err)
	}
}

func TestClient_TokenReport_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.TokenReport(context.Background(), testAddr)
	if err == nil {
		t.Fatal("TokenReport() error = nil, want API error")
	}
	if errors.Is(err, ErrTokenNotFound) || errors.Is(err, ErrRateLimited) {
		t.Errorf("TokenReport() error = %v, want generic API error", err)
	}
}

func TestClient_TokenReport_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>upstream hiccup</html>"))
	})

	if _, err := c.TokenReport(context.Background(), testAddr); err == nil {
		t.Fatal("TokenReport() error = nil, want parse error")
	}
}

func TestReport_RiskScore(t *testing.T) {
	tests := []struct {
		name        string
		report      Report
		wantScore   int
		wantLevel   string
		wantFactors int
	}{
		{
			name:        "clean token",
			report:      Report{MintDisabled: true, FreezeDisabled: true, LPBurned: true},
			wantScore:   0,
			wantLevel:   RiskLow,
			wantFactors: 0,
		},
		{
			name:        "worst case",
			report:      Report{Top10Holders: true},
			wantScore:   85,
			wantLevel:   RiskHigh,
			wantFactors: 4,
		},
		{
			name:        "lp not burned only",
			report:      Report{MintDisabled: true, FreezeDisabled: true},
			wantScore:   30,
			wantLevel:   RiskModerate,
			wantFactors: 1,
		},
		{
			name:        "authorities active",
			report:      Report{LPBurned: true},
			wantScore:   40,
			wantLevel:   RiskModerate,
			wantFactors: 2,
		},
		{
			name:        "authorities active plus concentration",
			report:      Report{LPBurned: true, Top10Holders: true},
			wantScore:   55,
			wantLevel:   RiskModerate,
			wantFactors: 3,
		},
		{
			name:        "everything but concentration",
			report:      Report{},
			wantScore:   70,
			wantLevel:   RiskHigh,
			wantFactors: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, factors := tt.report.RiskScore()
			if score != tt.wantScore {
				t.Errorf("RiskScore() = %d, want %d", score, tt.wantScore)
			}
			if len(factors) != tt.wantFactors {
				t.Errorf("RiskScore() factors = %d, want %d", len(factors), tt.wantFactors)
			}
			if level := tt.report.RiskLevel(); level != tt.wantLevel {
				t.Errorf("RiskLevel() = %q, want %q", level, tt.wantLevel)
			}
		})
	}
}

func TestRiskLevelFor_Thresholds(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, RiskLow},
		{29, RiskLow},
		{30, RiskModerate},
		{59, RiskModerate},
		{60, RiskHigh},
		{100, RiskHigh},
	}
	for _, tt := range tests {
		if got := RiskLevelFor(tt.score); got != tt.want {
			t.Errorf("RiskLevelFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
