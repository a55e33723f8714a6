// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package accumulator holds the state shared between compiles of one build: how
many times each tag was applied (TagUsage) and the regions declared inline in
location files (Regions).

Both are owned by the caller and passed into the engines that write or read
them. TagUsage is frozen once option templating starts, which turns a late
location compile into an error instead of a silently wrong count.
*/
package accumulator
