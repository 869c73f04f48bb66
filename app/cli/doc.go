// Package cli implements trafficctl, the command line client of the
// CrowdPredictor traffic service.
//
// The session of each --profile is kept in a JSON file under the user config
// directory, so a login survives between invocations:
//
//	trafficctl login -e ada@example.com
//	trafficctl search "Kadıköy" "Beşiktaş" --at 2026-10-17T08:30
//	trafficctl history list
//	trafficctl favorites check 12
//
// Every command accepts --json for machine readable output.
package cli
