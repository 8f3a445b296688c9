package models

import "time"

// Reading represents one minute of household power measurements.
// Measurement fields are pointers so a missing source value ("?" in the
// raw file) survives as nil rather than a zero.
type Reading struct {
	ID                  int        `json:"id"`
	Timestamp           time.Time  `json:"timestamp"`
	GlobalActivePower   *float64   `json:"global_active_power"`   // kilowatts
	GlobalReactivePower *float64   `json:"global_reactive_power"` // kilowatts
	Voltage             *float64   `json:"voltage"`               // volts
	GlobalIntensity     *float64   `json:"global_intensity"`      // amperes
	SubMetering1        *float64   `json:"sub_metering_1"`        // watt-hours, kitchen
	SubMetering2        *float64   `json:"sub_metering_2"`        // watt-hours, laundry
	SubMetering3        *float64   `json:"sub_metering_3"`        // watt-hours, water heater + AC
}
