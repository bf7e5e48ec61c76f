// Package router decides which retrievers answer a query.
//
// DefaultRouter always uses every retriever. ClassifierRouter asks the chat
// model whether the question is on topic and skips retrieval when it is not.
// LanguageModelRouter shows the model a numbered list of source descriptions
// and uses the sources whose numbers it answers with.
package router
