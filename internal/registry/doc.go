// Package registry fetches and caches the remote MCP server registry.
//
// The registry is a JSON document listing installable servers. It is
// fetched over HTTP, validated against the embedded schema, and cached
// under the app data directory so searches work offline. Users can also
// import a registry file by hand, for example a company-internal listing;
// imports go through the same schema validation.
package registry
