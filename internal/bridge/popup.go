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

package bridge

import "fmt"

// Popup window geometry.
const (
	PopupWidth  = 650
	PopupHeight = 600
	PopupName   = "TrustlensAuthPopup"
)

// PopupFeatures returns the window.open feature string for a popup centred
// in an opener of the given inner size, with window chrome disabled.
func PopupFeatures(openerWidth, openerHeight int) string {
	left := max((openerWidth-PopupWidth)/2, 0)
	top := max((openerHeight-PopupHeight)/2, 0)
	return fmt.Sprintf("width=%d,height=%d,top=%d,left=%d,resizable=no,toolbar=no,menubar=no,scrollbars=no,status=no",
		PopupWidth, PopupHeight, top, left)
}
