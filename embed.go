package activityform

import "embed"

// AssetsFS holds the stylesheet and the toggle/paragraph script served
// under /assets/.
//
//go:embed assets
var AssetsFS embed.FS
