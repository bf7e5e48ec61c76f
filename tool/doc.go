// Package tool provides the web search engines behind the web retriever.
//
// TavilySearch and BraveSearch both implement retriever.WebSearchEngine and
// feed a WebSearchRetriever:
//
//	search, err := tool.NewTavilySearch("", tool.WithTavilyMaxResults(3))
//	if err != nil {
//		return err // TAVILY_API_KEY not set
//	}
//	web := retriever.NewWebSearchRetriever(search, 3)
//
// Snippets are stripped of HTML markup before they reach the model.
package tool
