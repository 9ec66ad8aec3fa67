package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/richinex/discoverylens/model"
)

const analysisSystemPrompt = "You are an expert product manager and market researcher who provides data-driven analysis in JSON format."

const marketSystemPrompt = "You are a market research analyst who extracts structured data from research findings in JSON format."

const hmwSystemPrompt = `You are an expert product strategist specializing in "How Might We" (HMW) statement generation. You answer in JSON format.`

func analysisPrompt(d model.DiscoveryRequest, researchContext string) string {
	return fmt.Sprintf(`You are an expert product manager and market researcher. Analyze the following problem discovery and validate it with real market research data.

PROBLEM DISCOVERY:
- Problem Description: %s
- Affected Users: %s
- Evidence: %s
- Business Impact: %s
- Success Criteria: %s

MARKET RESEARCH DATA:
%s

Based on the discovery responses and market research, provide a comprehensive analysis in the following JSON format:

{
  "rootCauses": ["array of 3-5 root causes identified from the problem"],
  "userPainPoints": ["array of 3-5 specific user pain points"],
  "competitorInsights": ["array of 3-5 insights about how competitors handle this"],
  "keyFindings": ["array of 4-6 key findings that validate or invalidate the problem"],
  "recommendedFocus": "a single paragraph recommendation on what to focus on",
  "confidenceScore": number between 0-100 based on validation strength
}

Be specific, data-driven, and reference the research findings. The confidence score should reflect how well the market data validates the stated problem.`,
		d.ProblemDescription, d.AffectedUsers, d.Evidence, d.BusinessImpact, d.SuccessCriteria, researchContext)
}

func marketPrompt(researchContext string) string {
	return fmt.Sprintf(`Based on the following market research data, extract key market validation metrics:

%s

Provide the information in the following JSON format:

{
  "marketSize": "brief description of market size with numbers if available",
  "growthTrend": "growth trend description with percentages if available",
  "competitorSolutions": ["array of 3-5 competitor solutions mentioned"],
  "industryBenchmarks": ["array of 3-5 relevant industry benchmarks or statistics"],
  "userDemand": "description of user demand with supporting data",
  "validationSources": ["array of source names/publications mentioned"]
}

Be specific and include numbers/percentages where available from the research.`, researchContext)
}

func hmwPrompt(d model.DiscoveryRequest, a model.ProblemAnalysis) string {
	return fmt.Sprintf(`Based on the following problem analysis, generate 2-3 high-quality HMW statements:

Problem Description: %s
Root Causes: %s
User Pain Points: %s
Key Findings: %s
Recommended Focus: %s

For each HMW statement:
1. Frame it as an opportunity (starting with "How might we...")
2. Be specific and actionable
3. Focus on user value
4. Avoid prescribing solutions

For each HMW statement, provide:
- The HMW statement itself
- Rationale (why this is important)
- Target outcome (what success looks like)
- 3-4 potential solution directions (not full solutions)
- Priority (high/medium/low)
- Feasibility score (1-10)
- Impact score (1-10)

Return your response as a JSON object with this structure:
{
  "statements": [
    {
      "statement": "How might we...",
      "rationale": "string",
      "targetOutcome": "string",
      "potentialSolutions": ["solution1", "solution2"],
      "priority": "high|medium|low",
      "feasibility": number,
      "impact": number
    }
  ]
}`, d.ProblemDescription, jsonList(a.RootCauses), jsonList(a.UserPainPoints), jsonList(a.KeyFindings), a.RecommendedFocus)
}

// jsonList renders a list the way it is embedded in prompts.
func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}
