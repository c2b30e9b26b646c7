// Package funcs provides function definitions for NexusRavenV2 function calling.
//
// NexusRavenV2 is prompted with Python-style function signatures and
// docstrings, and responds with a Python-style call expression. This package
// implements the definition side: declarative Argument and Function types
// that render to the exact prompt format the model was trained on, plus a
// thread-safe Registry for managing the set of callable functions.
//
// # Function Definition
//
// Functions are defined declaratively:
//
//	fn := &funcs.Function{
//		Name:        "get_weather",
//		Description: "Get the current weather for a city.",
//		Arguments: []*funcs.Argument{
//			{Name: "city", Type: funcs.TypeString, Description: "The city name."},
//			{Name: "unit", Type: funcs.TypeString, Default: "celsius"},
//		},
//		ReturnType:        funcs.TypeDict,
//		ReturnDescription: "The current weather conditions.",
//	}
//
// Render produces the prompt block:
//
//	Function:
//	def get_weather(city: str, unit: str = 'celsius') -> dict:
//	    """
//	    Get the current weather for a city.
//	    ...
//
// # Registration
//
// Functions are managed through a central registry that preserves
// registration order (prompt rendering is order-sensitive):
//
//	registry := funcs.NewRegistry()
//	err := registry.Register(fn)
package funcs
