// Package buffer provides AudioBuffer, the mono or stereo sample container
// handed between sonification stages.
//
// Buffers are passed by ownership: a stage that receives a buffer may
// mutate it, and constructors adopt the slices they are given without
// copying. Use Copy when two stages need independent data.
package buffer
