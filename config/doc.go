// Package config loads the settings of the ragchat programs from defaults,
// an optional YAML file, a .env file and the environment, in increasing
// order of precedence.
//
// Example config.yaml:
//
//	gemini:
//	  model: gemini-2.5-flash
//	  temperature: 0.3
//	embedding:
//	  provider: ollama
//	  model: all-minilm
//	index:
//	  chunk_size: 300
//	  chunk_overlap: 30
//	memory:
//	  backend: redis
//	  redis_addr: localhost:6379
//
// API keys are usually given through GEMINI_API_KEY, TAVILY_API_KEY,
// BRAVE_API_KEY and OPENAI_API_KEY.
package config
