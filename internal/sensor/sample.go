// Package sensor defines the wire format for glove sensor samples and a
// ZeroMQ source for hardware senders that push them as CBOR.
package sensor

// Sample is one reading from the five-channel sensor glove: a raw ADC
// value and a voltage per channel. Field order in Vector matches the
// order the classifier was trained with.
type Sample struct {
	Timestamp string  `json:"timestamp" cbor:"timestamp"`
	Ch0Raw    int     `json:"ch0_raw" cbor:"ch0_raw"`
	Ch0Volt   float64 `json:"ch0_volt" cbor:"ch0_volt"`
	Ch1Raw    int     `json:"ch1_raw" cbor:"ch1_raw"`
	Ch1Volt   float64 `json:"ch1_volt" cbor:"ch1_volt"`
	Ch2Raw    int     `json:"ch2_raw" cbor:"ch2_raw"`
	Ch2Volt   float64 `json:"ch2_volt" cbor:"ch2_volt"`
	Ch3Raw    int     `json:"ch3_raw" cbor:"ch3_raw"`
	Ch3Volt   float64 `json:"ch3_volt" cbor:"ch3_volt"`
	Ch4Raw    int     `json:"ch4_raw" cbor:"ch4_raw"`
	Ch4Volt   float64 `json:"ch4_volt" cbor:"ch4_volt"`

	// Target is the label senders attach during data collection. It is
	// accepted and ignored.
	Target int `json:"target" cbor:"target"`
}

// Vector returns the sample as a feature vector in training order:
// raw then volt for each channel, channel 0 through 4.
func (s Sample) Vector() []float64 {
	return []float64{
		float64(s.Ch0Raw), s.Ch0Volt,
		float64(s.Ch1Raw), s.Ch1Volt,
		float64(s.Ch2Raw), s.Ch2Volt,
		float64(s.Ch3Raw), s.Ch3Volt,
		float64(s.Ch4Raw), s.Ch4Volt,
	}
}
