package orrery

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// Config gathers every tunable of the simulation core. The zero configuration
// is never used directly; start from DefaultConfig.
type Config struct {
	TimeScale   TimeScale
	Clearance   float64 // visual orbit clearance factor (≤ 1 disables)
	MetricsAddr string  // empty disables the metrics listener
	Vehicle     VehicleConfig
	Autopilot   AutopilotConfig
	Export      ExportConfig
}

// DefaultConfig returns the stock tuning; the core must run with zero
// external configuration.
func DefaultConfig() Config {
	return Config{
		TimeScale: ScaleRealTime,
		Clearance: 1,
		Vehicle:   DefaultVehicleConfig(),
		Autopilot: DefaultAutopilotConfig(),
	}
}

// LoadConfig returns the default configuration overlaid with the optional
// conf.toml found in the directory named by the ORRERY_CONFIG environment
// variable. A missing or unreadable file is logged and ignored, never fatal.
func LoadConfig(logger kitlog.Logger) Config {
	cfg := DefaultConfig()
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	confPath := os.Getenv("ORRERY_CONFIG")
	if confPath == "" {
		return cfg
	}
	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		logger.Log("level", "warning", "subsys", "sim", "config", confPath, "err", err)
		return cfg
	}

	if v.IsSet("general.time_scale") {
		ts, err := TimeScaleFromString(v.GetString("general.time_scale"))
		if err != nil {
			logger.Log("level", "warning", "subsys", "sim", "err", err)
		} else {
			cfg.TimeScale = ts
		}
	}
	if v.IsSet("general.metrics_addr") {
		cfg.MetricsAddr = v.GetString("general.metrics_addr")
	}
	if v.IsSet("orbit.clearance") {
		cfg.Clearance = v.GetFloat64("orbit.clearance")
	}

	if v.IsSet("vehicle.mass") {
		cfg.Vehicle.Mass = v.GetFloat64("vehicle.mass")
	}
	if v.IsSet("vehicle.main_force") {
		cfg.Vehicle.MainForce = v.GetFloat64("vehicle.main_force")
	}
	if v.IsSet("vehicle.maneuver_force") {
		cfg.Vehicle.ManeuverForce = v.GetFloat64("vehicle.maneuver_force")
	}
	if v.IsSet("vehicle.max_speed") {
		cfg.Vehicle.MaxSpeed = v.GetFloat64("vehicle.max_speed")
	}

	if v.IsSet("nav.throttle_cap") {
		cfg.Autopilot.ThrottleCap = v.GetFloat64("nav.throttle_cap")
	}
	if v.IsSet("nav.arrival_speed") {
		cfg.Autopilot.ArrivalSpeed = v.GetFloat64("nav.arrival_speed")
	}

	if v.IsSet("export.output_path") {
		cfg.Export.OutputDir = v.GetString("export.output_path")
		cfg.Export.CSV = true
		cfg.Export.Filename = v.GetString("export.filename")
		if cfg.Export.Filename == "" {
			cfg.Export.Filename = "orrery"
		}
	}
	return cfg
}
