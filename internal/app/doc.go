// Package app builds the components shared by the programs under cmd/ from
// a config.Config: chat model, embedder, web search, chat memory and the
// indexed vector stores.
package app
