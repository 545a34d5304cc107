// Package events defines the events published on the internal bus after each
// strategy prediction. Consumers such as the metrics collector, the history
// recorder and the MQTT publisher subscribe to them.
package events
