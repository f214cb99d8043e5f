/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package web holds the HTML pages served to the popup and opener windows.
package web

import (
	"embed"
	"html/template"
)

// Template names.
const (
	PopupTemplate  = "popup.tmpl"
	BridgeTemplate = "bridge.tmpl"
	OpenerTemplate = "opener.tmpl"
	ErrorTemplate  = "error.tmpl"
)

//go:embed templates/*.tmpl
var files embed.FS

// Templates parses every page. It panics on a malformed template.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(files, "templates/*.tmpl"))
}
