// internal/domain/defaults.go
package domain

// DefaultCategories are copied into every new account at signup.
var DefaultCategories = []Category{
	{Name: "Food & Dining", Type: TypeExpense, Icon: "🍔", Color: "#EF4444"},
	{Name: "Transportation", Type: TypeExpense, Icon: "🚗", Color: "#F59E0B"},
	{Name: "Shopping", Type: TypeExpense, Icon: "🛍️", Color: "#EC4899"},
	{Name: "Entertainment", Type: TypeExpense, Icon: "🎬", Color: "#8B5CF6"},
	{Name: "Bills & Utilities", Type: TypeExpense, Icon: "💡", Color: "#6366F1"},
	{Name: "Healthcare", Type: TypeExpense, Icon: "🏥", Color: "#14B8A6"},
	{Name: "Education", Type: TypeExpense, Icon: "📚", Color: "#0EA5E9"},
	{Name: "Other Expenses", Type: TypeExpense, Icon: "📦", Color: "#6B7280"},
	{Name: "Salary", Type: TypeIncome, Icon: "💰", Color: "#10B981"},
	{Name: "Freelance", Type: TypeIncome, Icon: "💼", Color: "#22C55E"},
	{Name: "Investments", Type: TypeIncome, Icon: "📈", Color: "#84CC16"},
	{Name: "Other Income", Type: TypeIncome, Icon: "💵", Color: "#059669"},
}
