package cmd

import (
	"fmt"

	"github.com/huangsam/opsreport/core"
	"github.com/spf13/cobra"
)

// linksCmd checks every sitemap path and critical route of a site.
var linksCmd = &cobra.Command{
	Use:   "links [base-url]",
	Short: "Check the sitemap and critical routes of a site for broken links.",
	Long: `Fetch {base-url}/sitemap.xml, then request every listed path plus the critical routes.

Each response is classified as ok, not_found, client_error, server_error or
network_error. A deliberately missing path must answer 404, otherwise it is
reported as missing_404.

The base URL defaults to http://localhost:3000. Requests run one at a time
unless --link-workers allows more.

Examples:
  # Check the local dev server
  opsreport links

  # Check staging with four concurrent requests
  opsreport links https://staging.example.com --link-workers 4

  # Also check internal links found on each page
  opsreport links --crawl`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := core.ExecuteLinks(rootCtx, cfg, historyManager); err != nil {
			return fmt.Errorf("cannot run link check: %w", err)
		}
		return nil
	},
}
