package orrery

import (
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// solarCatalog is the static configuration of the home system. Distances in
// km, periods in days, angles in degrees; orbital elements and J2000 mean
// anomalies follow the usual almanac values. Order matters: parents must
// precede their satellites.
var solarCatalog = []BodyDef{
	{Name: "Sol", Radius: 695700, RotationPeriod: 25.38, Tilt: 7.25},
	{Name: "Mercury", Parent: "Sol", Radius: 2439.7, RotationPeriod: 58.646, Tilt: 0.034,
		A: 57909050, Ecc: 0.2056, Incl: 7.005, Node: 48.331, ArgPeriapsis: 29.124,
		PeriodDays: 87.969, MeanAnomaly0: 174.796},
	{Name: "Venus", Parent: "Sol", Radius: 6051.8, RotationPeriod: -243.025, Tilt: 177.36,
		A: 108208000, Ecc: 0.0068, Incl: 3.395, Node: 76.680, ArgPeriapsis: 54.884,
		PeriodDays: 224.701, MeanAnomaly0: 50.115},
	{Name: "Earth", Parent: "Sol", Radius: 6378.137, RotationPeriod: 0.99727, Tilt: 23.44,
		A: 149598023, Ecc: 0.0167, Incl: 0.0001, Node: 348.739, ArgPeriapsis: 114.208,
		PeriodDays: 365.256, MeanAnomaly0: 358.617},
	{Name: "Mars", Parent: "Sol", Radius: 3396.2, RotationPeriod: 1.02595, Tilt: 25.19,
		A: 227939200, Ecc: 0.0934, Incl: 1.850, Node: 49.558, ArgPeriapsis: 286.502,
		PeriodDays: 686.980, MeanAnomaly0: 19.412},
	{Name: "Jupiter", Parent: "Sol", Radius: 71492, RotationPeriod: 0.41354, Tilt: 3.13,
		A: 778570000, Ecc: 0.0489, Incl: 1.303, Node: 100.464, ArgPeriapsis: 273.867,
		PeriodDays: 4332.59, MeanAnomaly0: 20.020},
	{Name: "Saturn", Parent: "Sol", Radius: 60268, RotationPeriod: 0.44401, Tilt: 26.73,
		A: 1433530000, Ecc: 0.0565, Incl: 2.485, Node: 113.665, ArgPeriapsis: 339.392,
		PeriodDays: 10759.22, MeanAnomaly0: 317.020},
	{Name: "Uranus", Parent: "Sol", Radius: 25559, RotationPeriod: -0.71833, Tilt: 97.77,
		A: 2870972000, Ecc: 0.0457, Incl: 0.773, Node: 74.006, ArgPeriapsis: 96.999,
		PeriodDays: 30688.5, MeanAnomaly0: 142.239},
	{Name: "Neptune", Parent: "Sol", Radius: 24764, RotationPeriod: 0.67125, Tilt: 28.32,
		A: 4503443000, Ecc: 0.0113, Incl: 1.770, Node: 131.784, ArgPeriapsis: 276.336,
		PeriodDays: 60182, MeanAnomaly0: 256.228},
	{Name: "Luna", Parent: "Earth", Radius: 1737.4, RotationPeriod: 27.3217, Tilt: 6.68,
		A: 384400, Ecc: 0.0549, Incl: 5.145, Node: 125.08, ArgPeriapsis: 318.15,
		PeriodDays: 27.3217, MeanAnomaly0: 115.365},
	{Name: "Phobos", Parent: "Mars", Radius: 11.08, RotationPeriod: 0.31891, Tilt: 0,
		A: 9376, Ecc: 0.0151, Incl: 1.093, Node: 207.78, ArgPeriapsis: 150.057,
		PeriodDays: 0.31891, MeanAnomaly0: 91.059},
	{Name: "Deimos", Parent: "Mars", Radius: 6.27, RotationPeriod: 1.2624, Tilt: 0,
		A: 23463.2, Ecc: 0.00033, Incl: 0.93, Node: 24.525, ArgPeriapsis: 260.729,
		PeriodDays: 1.2624, MeanAnomaly0: 325.329},
	// Gateway is the orbiting station over the home world; it composes frames
	// exactly like a natural satellite.
	{Name: "Gateway", Parent: "Earth", Radius: 2.5, RotationPeriod: 0.0417, Tilt: 0,
		A: 42164, Ecc: 0.0005, Incl: 0.1, Node: 0, ArgPeriapsis: 0,
		PeriodDays: 0.99727, MeanAnomaly0: 0},
}

// NewSolarSystem builds the home-system registry at the given epoch and
// returns it along with the secular drift model already wired to the Moon and
// to Mercury.
func NewSolarSystem(epoch time.Time, clearance float64, logger kitlog.Logger) (*Registry, *SecularDrift, error) {
	reg := NewRegistry(clearance, logger)
	for _, def := range solarCatalog {
		if _, err := reg.Add(def, epoch); err != nil {
			return nil, nil, err
		}
	}
	moon, _ := reg.Lookup("Luna")
	mercury, _ := reg.Lookup("Mercury")
	return reg, NewSecularDrift(moon, mercury), nil
}
