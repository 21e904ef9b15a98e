package paginate_test

import (
	"fmt"

	"github.com/lvillar/pagelayout/model"
	"github.com/lvillar/pagelayout/paginate"
)

func ExamplePaginate() {
	rows := make([]model.Row, 10)
	for i := range rows {
		rows[i] = model.Row{"amount": "$12.50"}
	}

	chunks := paginate.Paginate(rows, paginate.Options{
		AvailableHeight: 60,
		RowHeight:       8,
		HeaderHeight:    8,
		SubtotalHeight:  8,
		TotalHeight:     8,
		ShowTotal:       true,
	})
	for _, c := range chunks {
		fmt.Printf("page %d: %d rows, subtotal %.2f, last %v\n", c.Index+1, len(c.Rows), c.Subtotal, c.IsLastPage)
	}
	fmt.Printf("grand total %.2f\n", chunks[len(chunks)-1].GrandTotal)
	// Output:
	// page 1: 5 rows, subtotal 62.50, last false
	// page 2: 4 rows, subtotal 50.00, last false
	// page 3: 1 rows, subtotal 12.50, last true
	// grand total 125.00
}

func ExampleParseAmount() {
	fmt.Println(paginate.ParseAmount("$1,234.50"))
	fmt.Println(paginate.ParseAmount("n/a"))
	// Output:
	// 1234.5
	// 0
}
