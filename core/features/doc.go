// Package features turns a race context into the fixed-order numeric record
// consumed by the scaler and every predictive model. The column order is part
// of the trained artifacts' contract; Columns and Record.Vector are the only
// places that define it.
package features
