/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

/*
Package api serves the mothership directory over HTTP.

Routes:

	POST /register             {"topic_name", "node_id", "node_port"}
	GET  /topics/{topic_name}  {"node_address", "node_id", "node_topic"}
	GET  /health
	GET  /metrics

The registering node's host is taken from the connection's remote address.
Forwarding headers are ignored.
*/
package api
