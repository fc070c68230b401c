// Command poselabel converts pose annotations between Label Studio's JSON
// task format and a local SQLite project store.
//
// Typical flow: 'poselabel config init' to write a configuration file,
// define skeleton.nodes there, then 'poselabel import' annotation exports,
// inspect them with 'poselabel show', and 'poselabel export' them back out.
// 'poselabel convert' round-trips a file directly without the store.
package main
