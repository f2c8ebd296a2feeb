package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsboard/userdash/internal/view"
)

var (
	searchTerm string

	// per-field filters
	filterName       string
	filterEmail      string
	filterDepartment string

	// sort/pagination
	sortBy     string
	descending bool
	pageNum    int
	pageSize   int
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the user collection",
	Long:  "Load the user collection and print one page of it, after applying search, filters, and sorting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := view.ParseSortField(sortBy)
		if err != nil {
			return err
		}
		if !slices.Contains(view.PageSizes, pageSize) {
			return fmt.Errorf("invalid page size %d (allowed: %v)", pageSize, view.PageSizes)
		}

		gw, cleanup, err := newGateway()
		if err != nil {
			return err
		}
		defer cleanup()

		vm := view.New(gw)
		if err := vm.Load(cmd.Context()); err != nil {
			return fmt.Errorf("%w (rerun to retry)", err)
		}

		vm.SetPageSize(pageSize)
		vm.SetSearch(searchTerm)
		vm.SetFilters(view.Filters{
			Name:       filterName,
			Email:      filterEmail,
			Department: filterDepartment,
		})
		if field != view.SortNone {
			vm.SetSort(field)
			if descending {
				vm.SetSort(field) // same field again toggles to descending
			}
		}
		vm.SetPage(pageNum)

		renderPage(vm)
		return nil
	},
}

// renderPage prints the current page as an aligned table with a summary
// footer.
func renderPage(vm *view.ViewModel) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDEPARTMENT")
	for _, u := range vm.Page() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Department)
	}
	w.Flush()
	fmt.Printf("\nPage %d of %d (%d matching, %d total)\n",
		vm.CurrentPage(), vm.TotalPages(), len(vm.Sorted()), len(vm.Users()))
}

func init() {

	browseCmd.Flags().StringVarP(&searchTerm,
		"search", "s", "", "Free-text search across name, email, and department")

	browseCmd.Flags().StringVar(&filterName,
		"name", "", "Filter by name (substring)")

	browseCmd.Flags().StringVar(&filterEmail,
		"email", "", "Filter by email (substring)")

	browseCmd.Flags().StringVar(&filterDepartment,
		"department", "", "Filter by department (exact)")

	browseCmd.Flags().StringVar(&sortBy,
		"sort", "", "Sort field: id, name, email, or department")

	browseCmd.Flags().BoolVar(&descending,
		"desc", false, "Sort in descending order")

	browseCmd.Flags().IntVar(&pageNum,
		"page", 1, "Page number (1-based)")

	browseCmd.Flags().IntVar(&pageSize,
		"page-size", view.DefaultPageSize, "Page size: 10, 25, 50, or 100")

	rootCmd.AddCommand(browseCmd)
}
