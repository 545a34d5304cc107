// Package strategy runs the multi-stint pit strategy simulation. A Simulator
// queries the stop-count model once, then alternates stop-lap and tire
// predictions, advancing the stint start lap after every simulated stop and
// rebuilding the scaled feature vector before the next query.
package strategy
