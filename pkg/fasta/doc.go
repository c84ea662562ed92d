/*
Package fasta projects genome features into protein FASTA files and reads them back.

The projection is 1:1: every feature becomes one record whose identifier and
description are the feature's id and function, and whose sequence is the
feature's protein translation. Sequence lines wrap at LineWidth residues.
*/
package fasta
