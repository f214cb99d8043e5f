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

package registration

// Account roles.
const (
	RoleUser      = "user"
	RoleDeveloper = "developer"
)

// LoginPath is where a registered user is sent next.
const LoginPath = "/login"

// RegistrationForm is the sign-up form. An empty role registers a user.
type RegistrationForm struct {
	Name            string `json:"name" form:"name" binding:"required"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"eqfield=Password"`
	Role            string `json:"role" form:"role" binding:"omitempty,oneof=user developer"`
}

// RegistrationResponse tells the client where to go after signing up.
type RegistrationResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}
