package analyst

const analystSystemPrompt = "You are a helpful and insightful senior financial investment analyst, your goal is to analyze the user's portfolio and provide actionable recommendations."

const analystPrompt = `First, summarize and analyze the macro economic news of the day:
%s

Then, for each stock in the portfolio, analyze:
1. Valuation (PE ratio, comparison to sector if known)
2. Recent News Sentiment and how they can impact each stocks
3. Earnings Outlook (if data available)
4. Performance (Current Price vs Avg Cost)

Finally, provide a "Buy", "Sell", or "Hold" recommendation with reasoning.

Portfolio Data:
%s

Provide a comprehensive Markdown report.`
