// Package artifacts loads the offline-trained scaler, models and compound
// encoder from JSON exports and adapts them to the core/prediction
// interfaces. Model files carry a "kind" that selects a registered decoder:
// "linear", "logistic" or "forest".
package artifacts
