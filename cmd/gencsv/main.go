package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Generates a sample transaction CSV for exercising the stub server and the
// import CLI. A few rows are deliberately broken so the per-row error
// reporting has something to show.
func main() {
	output := flag.String("o", "test_transactions.csv", "output file path")
	flag.Parse()

	rows := []string{
		"account;category;currency;amount;type;date",
		"checking;groceries;EUR;42.50;expense;2025-01-03",
		"checking;salary;EUR;2500.00;income;2025-01-01",
		"savings;transfer;EUR;300.00;transfer;2025-01-05",
		"checking;dining;EUR;abc;expense;2025-01-06", // invalid amount
		"checking;utilities;EUR;88.20;expense",       // missing date field
		"cash;coffee;EUR;3.10;expense;2025-01-07",
	}

	content := strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(*output, []byte(content), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(rows)-1, *output)
}
