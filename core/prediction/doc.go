// Package prediction defines the inference capabilities the strategy
// simulator needs: a feature scaler, the stop-count and stop-lap regressors,
// the tire classifier and the compound codec. Concrete artifacts are loaded by
// infra/artifacts and grouped in an immutable ModelBundle.
package prediction
