package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/prdash/internal/model"
	"github.com/Veraticus/prdash/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway serves a small fixed data set on the gateway's routes.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/negotiations/dashboard-list": `[
			{"negotiationid":1,"prid":10,"eventid":1,"vendorid":1,"initialquoteamount":1000,"finalquoteamount":800,"negotiationstatus":"COMPLETED","negotiationdate":"2024-01-10"},
			{"negotiationid":2,"prid":11,"eventid":2,"vendorid":2,"initialquoteamount":500,"negotiationstatus":"PENDING","negotiationdate":"2024-03-01"}
		]`,
		"/negotiations/by-date": `[
			{"negotiationid":2,"prid":11,"eventid":2,"vendorid":2,"initialquoteamount":500,"negotiationstatus":"PENDING","negotiationdate":"2024-03-01"}
		]`,
		"/negotiations/by-year/2024": `[
			{"negotiationid":1,"prid":10,"eventid":1,"vendorid":1,"initialquoteamount":1000,"finalquoteamount":800,"negotiationstatus":"COMPLETED","negotiationdate":"2024-01-10"}
		]`,
		"/purchaserequests/getall": `[
			{"prid":10,"eventid":1,"vendorid":1,"allocatedamount":1200,"prstatus":"IN_NEGOTIATION","requestDate":"2024-01-02"},
			{"prid":12,"eventid":2,"vendorid":2,"allocatedamount":300,"prstatus":"PENDING","requestDate":"2024-02-02"}
		]`,
		"/purchaserequests/getallvendor": `[{"vendorId":1,"vendorname":"Acme Catering"},{"vendorId":2,"vendorname":"Globex AV"}]`,
		"/purchaserequests/getallevent":  `[{"eventId":1,"eventname":"Kickoff"},{"eventId":2,"eventname":"Annual Summit"}]`,

		"/purchaserequests/updatepurchasestatus/12/APPROVED": `{"prid":12,"prstatus":"APPROVED"}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNegotiationsList(t *testing.T) {
	srv := fakeGateway(t)

	tests := []struct {
		name        string
		args        []string
		contains    []string
		notContains []string
		wantErr     string
	}{
		{
			name:     "newest first with names",
			args:     []string{"negotiations", "list"},
			contains: []string{"Globex AV", "Acme Catering", "200.00 (20.0%)", "Page 1 of 1, 2 matching"},
		},
		{
			name:        "status filter",
			args:        []string{"neg", "list", "--status", "pending"},
			contains:    []string{"Globex AV", "1 matching"},
			notContains: []string{"Acme Catering"},
		},
		{
			name:     "page beyond the last",
			args:     []string{"negotiations", "list", "--page", "4"},
			contains: []string{"Page 4 is out of range, showing page 1 of 1", "Page 1 of 1, 2 matching"},
		},
		{
			name:     "nothing matches",
			args:     []string{"negotiations", "list", "--vendor", "Initech"},
			contains: []string{"No negotiations match"},
		},
		{
			name:        "date range",
			args:        []string{"negotiations", "list", "--from", "2024-02-01", "--to", "2024-03-31"},
			contains:    []string{"Globex AV", "1 matching"},
			notContains: []string{"Acme Catering"},
		},
		{
			name:        "year",
			args:        []string{"negotiations", "list", "--year", "2024"},
			contains:    []string{"Acme Catering", "1 matching"},
			notContains: []string{"Globex AV"},
		},
		{
			name:    "range ends before it starts",
			args:    []string{"negotiations", "list", "--from", "2024-03-01", "--to", "2024-02-01"},
			wantErr: "End date must not be before start date",
		},
		{
			name:    "bad amount",
			args:    []string{"negotiations", "list", "--min", "lots"},
			wantErr: "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, append(tt.args, "--gateway", srv.URL)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestPurchaseRequestsList(t *testing.T) {
	srv := fakeGateway(t)

	out, err := executeCommand(t, "pr", "list", "--gateway", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Annual Summit")
	assert.Contains(t, out, "Kickoff")
}

func TestGatewayFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := executeCommand(t, "negotiations", "list", "--gateway", srv.URL)
	require.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "prdash dev\n", out)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := fakeGateway(t)
	_, err := executeCommand(t, "export", "negotiations", "--format", "csv", "--gateway", srv.URL)
	require.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	srv := fakeGateway(t)
	dir := t.TempDir()

	out, err := executeCommand(t, "export", "negotiations", "--format", "json", "--output", dir, "--gateway", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 rows")
}

func TestHelpers(t *testing.T) {
	t.Run("savings text", func(t *testing.T) {
		tests := []struct {
			name string
			s    model.Savings
			want string
		}{
			{name: "unknown", s: model.Savings{}, want: "-"},
			{
				name: "known",
				s:    model.Savings{Known: true, Amount: testutil.Amount("150"), Percentage: testutil.Amount("15")},
				want: "150.00 (15.0%)",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, savingsText(tt.s))
			})
		}
	})

	t.Run("parse id", func(t *testing.T) {
		id, err := parseIDArg("42")
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)

		_, err = parseIDArg("abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `invalid id "abc"`)
	})

	t.Run("optional money", func(t *testing.T) {
		assert.Equal(t, "-", optionalMoney(nil))
		assert.Equal(t, "12.50", optionalMoney(testutil.AmountPtr("12.5")))
	})

	t.Run("filter params", func(t *testing.T) {
		cmd := &cobra.Command{Use: "x"}
		addFilterFlags(cmd)
		cmd.Flags().Int("page", 1, "")
		require.NoError(t, cmd.Flags().Parse([]string{"--status", "pending", "--year", "2024", "--from", "2024-01-01", "--to", "2024-06-30", "--sort", "date", "--dir", "desc", "--page", "3"}))

		p := filterParams(cmd)
		assert.Equal(t, "pending", p.Status)
		assert.Equal(t, 2024, p.Year)
		assert.Equal(t, "2024-01-01", p.From)
		assert.Equal(t, "2024-06-30", p.To)
		assert.Equal(t, "date", p.Sort)
		assert.Equal(t, "desc", p.Dir)
		assert.Equal(t, 3, p.Page)
		assert.Zero(t, p.PageSize)
	})
}

func TestNegotiationDetail(t *testing.T) {
	n := model.EnrichedNegotiation{
		Negotiation: testutil.NewNegotiation(7).For(3, 1, 2).Quotes("1000", "900").Status(model.NegotiationApproved).Comments("Signed").Build(),
		VendorName:  "Acme Catering",
		EventName:   "Kickoff",
	}
	approved := model.NewDate(2024, time.May, 3)
	n.ApprovalDate = &approved

	got := negotiationDetail(n)
	assert.Contains(t, got, "Purchase request: #3")
	assert.Contains(t, got, "Vendor:           Acme Catering")
	assert.Contains(t, got, "Savings:          100.00 (10.0%)")
	assert.Contains(t, got, "Comments:         Signed")
	assert.Contains(t, got, "Approved on:      2024-05-03")
	assert.NotContains(t, got, "Rejected on")
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv("PRDASH_DATABASE_PATH", t.TempDir()+"/approvals.db")

	out, err := executeCommand(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 0 (latest 2)")

	out, err = executeCommand(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "from version 0 to 2")

	out, err = executeCommand(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Already at schema version 2")
}

func TestPurchaseRequestApprove(t *testing.T) {
	srv := fakeGateway(t)

	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{name: "declined", input: "n\n", args: []string{"pr", "approve", "12"}, want: "Approval canceled"},
		{name: "confirmed", input: "yes\n", args: []string{"pr", "approve", "12"}, want: "Purchase request #12 approved"},
		{name: "skips prompt", args: []string{"pr", "approve", "12", "--yes"}, want: "Purchase request #12 approved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeWithInput(t, tt.input, append(tt.args, "--gateway", srv.URL)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}
