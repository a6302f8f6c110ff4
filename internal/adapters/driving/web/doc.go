// Package web serves the single-page recipe assistant and its JSON API.
//
// The page keeps the conversation in the browser and sends it with every
// question; the server holds no session state.
package web
