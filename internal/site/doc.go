// Package site implements the homepage generation pipeline: mirror the
// documentation tree into the content directory, prepare and render the
// README markdown, post-process the rendered fragment and assemble it into
// the HTML template. Execution is a linear sequence of stages; each stage's
// output feeds the next and the first fatal error aborts the build.
package site
