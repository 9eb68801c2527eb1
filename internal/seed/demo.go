package seed

import "tracker-backend/internal/models"

// DemoTask is one row of the demo board. Phase doubles as the stage.
type DemoTask struct {
	Phase      string
	Goal       string
	Comments   string
	Execute    string
	AssignedTo string
}

// Task builds the board row, leaving the assignment to the caller.
func (d DemoTask) Task() *models.Task {
	return &models.Task{
		Phase:    d.Phase,
		Goal:     d.Goal,
		Comments: d.Comments,
		Execute:  d.Execute,
		Stage:    d.Phase,
	}
}

// DemoMembers 演示团队成员
var DemoMembers = []models.TeamMember{
	{Username: "Alice Johnson", Email: "alice.johnson@demo.com", Org: models.DefaultOrg},
	{Username: "Bob Smith", Email: "bob.smith@demo.com", Org: models.DefaultOrg},
	{Username: "Carol Lee", Email: "carol.lee@demo.com", Org: models.DefaultOrg},
	{Username: "David Kim", Email: "david.kim@demo.com", Org: models.DefaultOrg},
}

// DemoTasks 演示任务，按成员轮流分配
var DemoTasks = []DemoTask{
	{"Outstanding", "General Ledger Review", "Audit the hospital’s existing general ledger to verify account balances, identify errors, and ensure GAAP compliance.", "One-Time", "Alice Johnson"},
	{"Outstanding", "Accrual Process Assessment", "Evaluate current accrual methods for revenue (e.g., unbilled patient services) and expenses (e.g., utilities, salaries) for accuracy and consistency.", "One-Time", "Bob Smith"},
	{"Outstanding", "Chart of Accounts Validation", "Review and align the hospital’s chart of accounts to ensure proper categorization for journal entries and financial reporting.", "One-Time", "Carol Lee"},
	{"Outstanding", "Prior Period Entry Analysis", "Examine historical journal entries to identify recurring issues or misclassifications, preparing correcting entries as needed.", "One-Time", "David Kim"},
	{"Outstanding", "Financial Statement Baseline Review", "Assess prior financial statements (balance sheet, income statement, cash flow statement) to establish a baseline for ongoing preparation and ensure compliance with GAAP and HIPAA.", "One-Time", "Alice Johnson"},
	{"In Process", "Revenue Accrual Entries", "Post journal entries for accrued revenue from unbilled patient services, using patient encounter data and estimated insurance reimbursements.", "Weekly", "Bob Smith"},
	{"In Process", "Expense Accrual Entries", "Record accrued expenses for incurred but unpaid costs (e.g., utilities, vendor services) based on historical data or pending invoices.", "Weekly", "Carol Lee"},
	{"In Process", "Cash Receipt Journal Entries", "Log journal entries for cash receipts from patients or insurers, debiting cash and crediting revenue or accounts receivable.", "Weekly", "David Kim"},
	{"In Process", "Preliminary Journal Review", "Review weekly journal entries for correct account coding, completeness, and supporting documentation (e.g., payment records).", "Weekly", "Alice Johnson"},
	{"In Process", "Adjusting Entry Corrections", "Prepare and post adjusting entries to correct errors or discrepancies identified during weekly general ledger reviews.", "Weekly", "Bob Smith"},
	{"Review/Discussion", "Month-End Accrual Finalization", "Finalize and post accrual entries for revenue (e.g., unbilled procedures, pending claims) and expenses (e.g., salaries, leases) to align with GAAP.", "Monthly", "Carol Lee"},
	{"Review/Discussion", "Depreciation Journal Entries", "Record monthly depreciation entries for hospital assets (e.g., medical equipment, facilities) using established schedules.", "Monthly", "David Kim"},
	{"Review/Discussion", "Prepaid Expense Amortization", "Post journal entries to amortize prepaid expenses (e.g., insurance, software licenses) over their applicable periods.", "Monthly", "Alice Johnson"},
	{"Resolved", "Financial Statement Preparation", "Prepare monthly financial statements (balance sheet, income statement, cash flow statement) using journal entry data, ensuring accuracy and GAAP compliance.", "Monthly", "Bob Smith"},
	{"Resolved", "Comprehensive Ledger and Financial Review", "Conduct a detailed review of all monthly journal entries and financial statements, verifying accuracy, accrual integrity, and compliance with GAAP and HIPAA.", "Monthly", "Carol Lee"},
	{"Resolved", "Accrual Reversal Entries", "Post reversing entries for prior month’s accruals (e.g., paid invoices, settled claims) to prevent double-counting in the ledger.", "Monthly", "David Kim"},
}
