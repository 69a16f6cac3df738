package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"NAME":  "portfolio",
		"EMPTY": "",
		"N":     "42",
		"BAD_N": "forty",
		"FLAG":  " true ",
		"LIST":  "a, b,,c ",
	}

	assert.Equal(t, "portfolio", GetString(c, "NAME", "x"))
	assert.Equal(t, "x", GetString(c, "EMPTY", "x"))
	assert.Equal(t, "x", GetString(nil, "NAME", "x"))
	assert.Equal(t, 42, GetInt(c, "N", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_N", 1))
	assert.True(t, GetBool(c, "FLAG", false))
	assert.Equal(t, []string{"a", "b", "c"}, GetList(c, "LIST", nil))
	assert.Equal(t, []string{"*"}, GetList(c, "MISSING", []string{"*"}))
}

func TestSplit(t *testing.T) {
	k, v := split("A=b=c")
	assert.Equal(t, "A", k)
	assert.Equal(t, "b=c", v)

	k, v = split("LONELY")
	assert.Equal(t, "LONELY", k)
	assert.Empty(t, v)
}

func TestFromMapDefaults(t *testing.T) {
	s := FromMap(map[string]string{})

	assert.Equal(t, DefaultAPIBaseURL, s.APIBaseURL)
	assert.Equal(t, DefaultVideoAssetBaseURL, s.VideoAssetBaseURL)
	assert.Equal(t, 10*time.Second, s.RequestTimeout)
	assert.Equal(t, 30*time.Second, s.UploadTimeout)
	assert.Equal(t, 2, s.RetryMax)
	assert.Equal(t, "static", s.VideoAssetMode)
	assert.Equal(t, "memory", s.SessionStore)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, []string{"*"}, s.AcceptedOrigins)
	assert.Equal(t, "session.toml", filepath.Base(s.SessionFile))
	assert.Equal(t, "require", s.Database.SSLMode)
}

func TestFromMapOverrides(t *testing.T) {
	s := FromMap(map[string]string{
		"API_BASE_URL":            "http://localhost:9000/api",
		"REQUEST_TIMEOUT_SECONDS": "3",
		"ACCEPTED_ORIGINS":        "https://a.test,https://b.test",
		"DB_HOST":                 "db",
		"DB_USER":                 "u",
		"DB_PASSWORD":             "p",
		"DB_NAME":                 "portfolio",
	})

	assert.Equal(t, "http://localhost:9000/api", s.APIBaseURL)
	assert.Equal(t, 3*time.Second, s.RequestTimeout)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, s.AcceptedOrigins)
	assert.Equal(t, "host=db user=u password=p dbname=portfolio port=5432 sslmode=require", s.Database.DSN())
}
