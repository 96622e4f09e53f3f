package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestFlexValuesAbsorbFeedEncodings(t *testing.T) {
	var record PlayerStatsRecord
	payload := `{
		"Name": "Test Player",
		"Tries": "2",
		"All Run Metres": "1,024",
		"Tackles Made": 31.0,
		"Kicking Metres": "312.5",
		"Errors": null,
		"Sin Bins": ""
	}`

	require.NoError(t, json.Unmarshal([]byte(payload), &record))

	assert.Equal(t, FlexInt(2), record.Tries)
	assert.Equal(t, FlexInt(1024), record.RunMetres)
	assert.Equal(t, FlexInt(31), record.Tackles)
	assert.Equal(t, FlexFloat(312.5), record.KickMetres)
	assert.Equal(t, FlexInt(0), record.Errors)
	assert.Equal(t, FlexInt(0), record.SinBins)
}

func TestFetchSeasonMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/NRL/NRL_data_2024.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"Round": "1", "Home": "Penrith Panthers", "Away": "Melbourne Storm",
			 "Venue": "Penrith Stadium", "Home_Score": 20, "Away_Score": "12"},
			{"Round": 2, "Home": "Sydney Roosters", "Away": "Brisbane Broncos",
			 "Venue": "Allianz Stadium"}
		]`))
	}))
	defer server.Close()

	client := NewNRLDataClient(server.URL, 5*time.Second, testLogger())

	matches, err := client.FetchSeasonMatches(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, FlexInt(1), matches[0].Round)
	assert.Equal(t, "Penrith Panthers", matches[0].HomeTeam)
	assert.True(t, matches[0].Completed())
	assert.False(t, matches[1].Completed())
}

func TestFetchSeasonPlayerStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/NRL/NRL_detailed_match_data_2024.json", r.URL.Path)
		w.Write([]byte(`[
			{"Name": "N. Hynes", "Team": "Cronulla Sharks", "Round": 3,
			 "Mins Played": 80, "Tries": 1, "Tackles Made": 18}
		]`))
	}))
	defer server.Close()

	client := NewNRLDataClient(server.URL, 5*time.Second, testLogger())

	stats, err := client.FetchSeasonPlayerStats(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "N. Hynes", stats[0].PlayerName)
	assert.Equal(t, FlexInt(80), stats[0].Minutes)
}

func TestFetchErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewNRLDataClient(server.URL, 5*time.Second, testLogger())

	_, err := client.FetchSeasonMatches(context.Background(), 1999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewNRLDataClient(server.URL, 5*time.Second, testLogger())

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := client.FetchSeasonMatches(ctx, 2024)
		require.Error(t, err)
	}

	// Breaker is open now; the request never reaches the server.
	_, err := client.FetchSeasonMatches(ctx, 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
