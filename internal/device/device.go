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

// Package device classifies the operating system, browser and device class of a user agent.
package device

import (
	"regexp"
	"strings"
)

const (
	UnknownOS      = "Unknown OS"
	UnknownBrowser = "Unknown Browser"

	Desktop = "Desktop"
	Mobile  = "Mobile"
	Tablet  = "Tablet"
)

// Context is the device metadata attached to a consent record.
type Context struct {
	OS         string `json:"operating_system"`
	Browser    string `json:"browser"`
	DeviceType string `json:"device_type"`
}

var (
	iosPattern    = regexp.MustCompile(`iPhone|iPad|iPod`)
	mobilePattern = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPad|iPod`)
	tabletPattern = regexp.MustCompile(`(?i)Tablet|iPad`)

	chromePattern  = regexp.MustCompile(`(?i)chrome|crios`)
	firefoxPattern = regexp.MustCompile(`(?i)firefox|fxios`)
	safariPattern  = regexp.MustCompile(`(?i)safari`)
	edgePattern    = regexp.MustCompile(`(?i)edg`)
	operaPattern   = regexp.MustCompile(`(?i)opera|opr`)
)

// Classify derives the OS, browser and device class of ua.
func Classify(ua string) Context {
	return Context{
		OS:         OS(ua),
		Browser:    Browser(ua),
		DeviceType: DeviceType(ua),
	}
}

// OS returns the operating system named by ua. Rules are tried in the order
// Windows, macOS, Linux, Android, iOS and the first match wins, so full
// iPhone agents ("like Mac OS X") report macOS and Android agents report Linux.
func OS(ua string) string {
	switch {
	case strings.Contains(ua, "Win"):
		return "Windows"
	case strings.Contains(ua, "Mac"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	case strings.Contains(ua, "Android"):
		return "Android"
	case iosPattern.MatchString(ua):
		return "iOS"
	default:
		return UnknownOS
	}
}

// Browser returns the browser family named by ua. The first matching rule wins,
// so Chromium-based Edge and Opera report as Chrome.
func Browser(ua string) string {
	switch {
	case chromePattern.MatchString(ua):
		return "Chrome"
	case firefoxPattern.MatchString(ua):
		return "Firefox"
	case safariPattern.MatchString(ua):
		// chrome already ruled out above
		return "Safari"
	case edgePattern.MatchString(ua):
		return "Edge"
	case operaPattern.MatchString(ua):
		return "Opera"
	default:
		return UnknownBrowser
	}
}

// DeviceType returns Desktop, Mobile or Tablet.
func DeviceType(ua string) string {
	if !mobilePattern.MatchString(ua) {
		return Desktop
	}
	if tabletPattern.MatchString(ua) {
		return Tablet
	}
	return Mobile
}
