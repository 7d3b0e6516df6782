package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-workshop/internal/pkg/logging"
)

type LoggingTestSuite struct {
	suite.Suite
}

func TestLoggingSuite(t *testing.T) {
	suite.Run(t, new(LoggingTestSuite))
}

func (s *LoggingTestSuite) TestParseLevel() {
	s.Equal(slog.LevelDebug, logging.ParseLevel("debug"))
	s.Equal(slog.LevelWarn, logging.ParseLevel("WARNING"))
	s.Equal(slog.LevelError, logging.ParseLevel("ERROR"))
	s.Equal(slog.LevelInfo, logging.ParseLevel("verbose"))
}

func (s *LoggingTestSuite) TestConsoleOnlyRespectsLevel() {
	var buf bytes.Buffer
	logger, closer := logging.New(&buf, logging.Options{Level: "WARN", Format: "json"})
	defer func() { s.NoError(closer.Close()) }()

	logger.Info("hidden")
	logger.Warn("shown", "monster_id", "mon_1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Require().Len(lines, 1)

	var record map[string]any
	s.Require().NoError(json.Unmarshal([]byte(lines[0]), &record))
	s.Equal("shown", record["msg"])
	s.Equal("mon_1", record["monster_id"])
}

func (s *LoggingTestSuite) TestFileOutput() {
	var buf bytes.Buffer
	path := filepath.Join(s.T().TempDir(), "workshop.log")

	logger, closer := logging.New(&buf, logging.Options{Level: "INFO", FilePath: path})
	logger.With("run_id", "run_1").Info("simulation stored")
	s.Require().NoError(closer.Close())

	s.Contains(buf.String(), "simulation stored")
	s.Contains(buf.String(), "run_id=run_1")

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Contains(string(data), `"run_id":"run_1"`)
}
