// Package client provides an inference client for NexusRavenV2 endpoints.
//
// The client speaks the text-generation-inference (TGI) HTTP API: blocking
// generation via POST /generate and token streaming via the
// /generate_stream server-sent-events endpoint. Configuration comes from
// RAVEN_-prefixed environment variables (optionally via a .env file) or a
// Config built in code.
//
// Example usage:
//
//	cfg, err := client.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	c, err := client.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	tmpl := prompt.New([]*funcs.Function{weatherFn})
//	out, err := c.Call(ctx, tmpl, "What's the weather in Seattle?")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Println(out.Call) // get_weather(city='Seattle')
package client
