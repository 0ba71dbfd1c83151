/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package core provides the core gear for compiling PoV
// specifications into C.
//
// A PoV ("proof of vulnerability") specification is a scripted
// conversation with a service: writes, reads that match what comes
// back, delays, variable declarations and a negotiate/submit
// handshake that says what kind of proof the conversation produces.
//
// The primary types are Builder and Generator.  A Builder turns a
// specification tree (see package node) into a PoV, which is an
// ordered list of Actions.  A Generator writes the C program for a
// PoV.  The program calls the functions of the libpov runtime
// library; this package doesn't provide that library and doesn't
// check that the program compiles.
//
// Building happens in two phases.  The first phase builds each action
// on its own.  An action that fails to build is reported and skipped,
// and the rest of the specification is still examined.  The second
// phase resolves what depends on the whole specification: the PoV
// type comes from the last Negotiate, every Submit gets that type, and
// a type 2 PoV without a Submit gets one.
//
// The symbols in the generated code are named after serial numbers
// that each Write, Read and Declare gets when it's built.  Building
// the same specification twice gives the same program.
package core
