// Package traffic maps predicted congestion levels to colours and labels and
// formats values for display in a locale.
package traffic
