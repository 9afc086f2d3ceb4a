package csharp

import "fmt"

// renderRuntime returns IonRuntime.cs, the support file every generated
// program compiles against. It lives in the program's namespace so the
// generated code references IonResult without a using directive.
func renderRuntime(ns string) string {
	return fmt.Sprintf(`// Runtime support for Ion programs. Do not edit.
using System;

namespace %s
{
    /// <summary>
    /// Two-variant result carrying either a success value or an error.
    /// </summary>
    public readonly struct IonResult<T, E>
    {
        private readonly T _value;
        private readonly E _error;

        private IonResult(bool isOk, T value, E error)
        {
            IsOk = isOk;
            _value = value;
            _error = error;
        }

        /// <summary>True when this result holds a success value.</summary>
        public bool IsOk { get; }

        /// <summary>True when this result holds an error.</summary>
        public bool IsError => !IsOk;

        /// <summary>The success value. Throws on the error variant.</summary>
        public T Value => IsOk
            ? _value
            : throw new InvalidOperationException("Value accessed on an error result");

        /// <summary>The error. Throws on the success variant.</summary>
        public E Error => IsOk
            ? throw new InvalidOperationException("Error accessed on an ok result")
            : _error;

        public static IonResult<T, E> Ok(T value) => new IonResult<T, E>(true, value, default!);

        public static IonResult<T, E> Err(E error) => new IonResult<T, E>(false, default!, error);

        public override string ToString() => IsOk ? $"Ok({_value})" : $"Error({_error})";
    }

    /// <summary>
    /// No-op instrumentation hooks for declared effects. Replace with a real
    /// implementation to observe effectful calls at runtime.
    /// </summary>
    public static class EffectTracker
    {
        public static void Enter(string function, params string[] effects)
        {
        }

        public static void Exit(string function)
        {
        }
    }
}
`, ns)
}

// renderProject returns the csproj manifest. The project builds as a
// library so programs without an entry point still compile.
func renderProject() string {
	return `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <OutputType>Library</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <Nullable>enable</Nullable>
    <ImplicitUsings>disable</ImplicitUsings>
  </PropertyGroup>

</Project>
`
}
