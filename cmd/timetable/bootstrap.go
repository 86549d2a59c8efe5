package main

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/campustt/timetable-core/internal/dto"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
	"github.com/campustt/timetable-core/pkg/config"
	"github.com/campustt/timetable-core/pkg/logger"
)

// bootstrapLogger builds the process-wide zap.Logger from config.Load,
// falling back to a no-op logger if config/logger construction fails —
// a CLI invocation should never be blocked by observability wiring.
func bootstrapLogger() (*zap.Logger, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		return zap.NewNop(), &config.Config{}
	}
	log, err := logger.New(cfg)
	if err != nil {
		return zap.NewNop(), cfg
	}
	return log, cfg
}

// loadResourceBundle reads one faculty's resources.json into a
// dto.ResourceBundle (spec §6's GenerationRequest.resources).
func loadResourceBundle(path string) (dto.ResourceBundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dto.ResourceBundle{}, appErrors.Wrap(err, appErrors.ErrBadInput.Code, appErrors.ErrBadInput.Status, "read resources file")
	}
	var bundle dto.ResourceBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return dto.ResourceBundle{}, appErrors.Wrap(err, appErrors.ErrBadInput.Code, appErrors.ErrBadInput.Status, "parse resources file")
	}
	return bundle, nil
}

// writeJSON renders v as indented JSON to path.
func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal output json")
	}
	return os.WriteFile(path, raw, 0o644)
}
