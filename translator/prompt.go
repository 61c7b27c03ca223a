package translator

import (
	"fmt"
	"strings"
)

// ============================================================================
// PROMPT BUILDERS — What each collaborator is asked
// ============================================================================
// The extraction prompt carries the table schemas with a few sample rows,
// the known key relationships, and worked example translations. Total
// metadata per call stays small; raw tables are never sent.
// ============================================================================

// buildClassificationPrompt asks for the strict two-field response contract.
func buildClassificationPrompt(question string) string {
	return fmt.Sprintf(`Classify this question: %q

Question Types:
- "data_query": Can be answered with current data only (e.g., "What are current failure rates?", "Which city has most orders?")
- "analytical": Requires analysis, prediction, or recommendations only (e.g., "What will happen if we add 20,000 orders?", "How should we prepare?")
- "hybrid": Has both data and analytical elements (e.g., "What are likely causes and how should we prepare?")

Return JSON: {"type": "data_query|analytical|hybrid", "reasoning": "explanation"}`, question)
}

// buildExtractionPrompt asks for one QuerySpec-shaped JSON object.
// schemaJSON and relationships come from the dataset package.
func buildExtractionPrompt(question, schemaJSON, relationships string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a data analyst. Generate a data query for this question: %q\n\n", question)

	b.WriteString("Available Data Schema with Sample Data:\n")
	b.WriteString(schemaJSON)
	b.WriteString("\n\n")
	b.WriteString(relationships)
	b.WriteString("\n")

	b.WriteString(`Instructions:
- Use the sample data to understand the actual data values and formats
- Generate appropriate filters based on the sample data patterns
- Consider the relationships between tables (e.g., client_id links orders to clients)
- For date filters, use actual dates from the sample data
- For time periods, use specific date ranges that exist in the data
- IMPORTANT: The system can perform one basic join for warehouse sales analysis
- For warehouse sales analysis: use the orders table - the system will automatically join with warehouse_logs
- For driver performance analysis: use the fleet_logs table (has driver_id but no performance metrics)
- For client analysis: use the clients table for client info, the orders table for client orders
- When relationships are needed but joins are not possible, provide alternative analysis using available data

Return JSON:
{
    "intent": "what user wants",
    "table": "orders|clients|warehouses|drivers|fleet_logs|warehouse_logs|external_factors|feedback",
    "group_by": "column",
    "aggregations": {"column": "sum|count|avg"},
    "filters": {"column": "value"},
    "sort_by": "column",
    "sort_order": "desc|asc",
    "limit": number
}

Examples:
"Which city has highest sales?" -> {"intent": "Find city with highest sales", "table": "orders", "group_by": "city", "aggregations": {"amount": "sum"}, "sort_by": "sum_amount", "sort_order": "desc", "limit": 1}
"How many clients?" -> {"intent": "Count clients", "table": "clients", "aggregations": {"client_id": "count"}}
"Why were deliveries delayed in Chennai?" -> {"intent": "Analyze delivery delays in Chennai", "table": "orders", "filters": {"city": "Chennai", "status": "Failed"}, "group_by": "failure_reason", "aggregations": {"order_id": "count"}}
"Compare delivery failure causes between Chennai and Mumbai" -> {"intent": "Compare failure causes between cities", "table": "orders", "filters": {"city": ["Chennai", "Mumbai"], "status": "Failed"}, "group_by": "city,failure_reason", "aggregations": {"order_id": "count"}, "sort_by": "city"}
"Which warehouse had the most sale amount?" -> {"intent": "Identify warehouse with highest sales", "table": "orders", "filters": {"status": "Delivered"}, "group_by": "warehouse_id", "aggregations": {"amount": "sum"}, "sort_by": "sum_amount", "sort_order": "desc", "limit": 1}

JSON:`)

	return b.String()
}

// buildReasoningPrompt asks for free-text operational insights, optionally
// grounded on rows the data path already produced.
func buildReasoningPrompt(question string, dataContext string) string {
	if dataContext == "" {
		dataContext = "No specific data provided"
	}
	return fmt.Sprintf(`Question: %q

Based on your expertise in logistics and delivery operations, provide analytical insights and recommendations.

Data Context: %s

Provide:
1. Key insights and patterns
2. Risk assessment
3. Specific recommendations
4. Implementation strategies

Be specific, actionable, and data-driven.`, question, dataContext)
}

// System messages per collaborator.
const (
	classifierSystem = "You are a question classifier. Return only valid JSON."
	extractorSystem  = "You are a data analyst. Generate JSON queries for data analysis. Always return valid JSON only."
	reasonerSystem   = "You are a senior logistics analyst with 10+ years of experience. Provide specific, actionable insights."
)
