package client

// SampleExpenses はデモ・シード用のサンプル支出データを返す。
func SampleExpenses() []ExpenseInput {
	return []ExpenseInput{
		{Category: "Food & Dining", Description: "Lunch at cafe", Date: "2025-11-15", Vendor: "Blue Cafe", Amount: 28.50},
		{Category: "Transportation", Description: "Ride to airport", Date: "2025-11-14", Vendor: "Uber", Amount: 15.20},
		{Category: "Shopping", Description: "Office supplies", Date: "2025-11-13", Vendor: "Staples", Amount: 45.99},
		{Category: "Food & Dining", Description: "Weekly groceries", Date: "2025-11-12", Vendor: "Whole Foods", Amount: 127.80},
		{Category: "Utilities", Description: "Internet bill", Date: "2025-11-10", Vendor: "Comcast", Amount: 79.99},
		{Category: "Entertainment", Description: "Movie tickets", Date: "2025-11-09", Vendor: "AMC Theatres", Amount: 32.00},
		{Category: "Transportation", Description: "Gas refill", Date: "2025-11-08", Vendor: "Shell", Amount: 52.30},
		{Category: "Food & Dining", Description: "Dinner with friends", Date: "2025-11-07", Vendor: "Italian Bistro", Amount: 85.40},
		{Category: "Healthcare", Description: "Pharmacy", Date: "2025-11-05", Vendor: "CVS Pharmacy", Amount: 24.50},
		{Category: "Shopping", Description: "New clothes", Date: "2025-11-03", Vendor: "H&M", Amount: 68.75},
		{Category: "Utilities", Description: "Electric bill", Date: "2025-11-01", Vendor: "City Power", Amount: 94.60},
	}
}
